// Package curriculum extracts speakable phrases from the daily curriculum
// document and assigns each one a stable identity and output filename.
//
// The curriculum file is a loosely structured JavaScript document. It is
// not parsed structurally: speaking blocks and their phrases are located by
// pattern matching, so nested or malformed blocks, activities not tagged as
// "speaking", and fields using alternate quoting are silently skipped.
// Day and phrase numbers are purely positional. Filenames are keyed by
// position, not content, so editing a phrase in place reuses its old audio
// until a forced regeneration.
package curriculum

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/book-expert/curriculum-audio/internal/core"
)

// Regex patterns for locating speakable content.
//
// A speaking block looks like: type: "speaking" ... phrases: [ ... ].
// Within a block, every quoted characters field is one spoken phrase.
const (
	speakingBlockPattern = `(?s)type:\s*["']speaking["'].*?phrases:\s*\[(.*?)\]`
	charactersPattern    = `characters:\s*["']([^"']+)["']`
)

// Error message formats.
const (
	errFmtCurriculumUnreadable = "failed to read curriculum file %s: %w"
)

// Scanner locates speakable phrases in curriculum source text.
type Scanner struct {
	speakingBlock *regexp.Regexp
	characters    *regexp.Regexp
	naming        *Naming
}

// NewScanner creates a scanner that substitutes placeholderName for the
// {{NAME}} token in synthesized text.
func NewScanner(placeholderName string) *Scanner {
	return &Scanner{
		speakingBlock: regexp.MustCompile(speakingBlockPattern),
		characters:    regexp.MustCompile(charactersPattern),
		naming:        NewNaming(placeholderName),
	}
}

// Naming returns the identity and naming rules used by this scanner.
func (s *Scanner) Naming() *Naming {
	return s.naming
}

// ScanFile reads the curriculum document at path and extracts its phrases.
// A missing or unreadable file is a fatal precondition: no partial result
// is returned.
func (s *Scanner) ScanFile(path string) ([]core.Phrase, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(errFmtCurriculumUnreadable, path, err)
	}

	return s.Scan(string(content)), nil
}

// Scan extracts every speaking phrase from the given source text.
//
// Days are numbered sequentially from 1 in the order speaking blocks appear
// in the document; a block with zero phrase matches contributes no phrases
// but still consumes a day number. Phrase indexes restart from 0 in each
// block. The result order is deterministic: document order.
func (s *Scanner) Scan(content string) []core.Phrase {
	blocks := s.speakingBlock.FindAllStringSubmatch(content, -1)

	var phrases []core.Phrase

	for blockIndex, block := range blocks {
		day := blockIndex + 1

		for phraseIndex, match := range s.characters.FindAllStringSubmatch(block[1], -1) {
			text := match[1]

			phrases = append(phrases, core.Phrase{
				Day:       day,
				Index:     phraseIndex,
				Text:      text,
				AudioText: s.naming.SubstituteName(text),
				Filename:  s.naming.PhraseFilename(day, phraseIndex),
			})
		}
	}

	return phrases
}

// NamePhrases returns the fixed proper-name vocabulary as phrases. These
// need audio regardless of the curriculum content and are not tied to any
// speaking block, so Day is 0 and Index is the list position.
func (s *Scanner) NamePhrases() []core.Phrase {
	phrases := make([]core.Phrase, 0, len(ProperNames))

	for i, name := range ProperNames {
		phrases = append(phrases, core.Phrase{
			Day:       0,
			Index:     i,
			Text:      name.Script,
			AudioText: name.Script,
			Filename:  s.naming.NameFilename(name.Script),
		})
	}

	return phrases
}

// Describe formats a phrase for listings, including its target filename.
func Describe(p core.Phrase) string {
	var b strings.Builder

	if p.Day > 0 {
		fmt.Fprintf(&b, "Day %d, #%d: %s", p.Day, p.Index, p.Text)
	} else {
		fmt.Fprintf(&b, "Name: %s", p.Text)
	}

	fmt.Fprintf(&b, " -> %s", p.Filename)

	return b.String()
}
