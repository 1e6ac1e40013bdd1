package curriculum

import (
	"fmt"
	"strings"
)

// PlaceholderToken is the reserved template token in curriculum text that
// stands in for the learner's name.
const PlaceholderToken = "{{NAME}}"

// Filename formats. Curriculum phrases are keyed by (day, index); fixed
// vocabulary names are keyed by the name itself, used verbatim.
const (
	phraseFilenameFormat = "day%d_speaking_phrase%d.mp3"
	nameFilenameFormat   = "name_%s.mp3"
)

// Naming maps phrases to synthesis text and deterministic filenames.
type Naming struct {
	placeholderName string
}

// NewNaming creates naming rules that substitute placeholderName for the
// reserved token.
func NewNaming(placeholderName string) *Naming {
	return &Naming{placeholderName: placeholderName}
}

// SubstituteName replaces every occurrence of the placeholder token with
// the configured name. The substitution is a pure function and idempotent:
// once substituted, the token no longer appears and re-applying it is a
// no-op.
func (n *Naming) SubstituteName(text string) string {
	return strings.ReplaceAll(text, PlaceholderToken, n.placeholderName)
}

// PhraseFilename returns the output filename for a curriculum phrase.
// The mapping is stable across runs as long as the document's block
// ordering does not change.
func (n *Naming) PhraseFilename(day, index int) string {
	return fmt.Sprintf(phraseFilenameFormat, day, index)
}

// NameFilename returns the output filename for a fixed vocabulary name.
// The name is used verbatim; non-ASCII-safe filesystems are assumed.
func (n *Naming) NameFilename(name string) string {
	return fmt.Sprintf(nameFilenameFormat, name)
}
