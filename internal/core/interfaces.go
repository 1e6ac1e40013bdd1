// Package core defines the core types and interfaces for the curriculum
// audio pipeline.
package core

import "context"

// AudioFormat identifies the container format of synthesized audio.
type AudioFormat string

// Supported audio formats.
const (
	FormatMP3 AudioFormat = "mp3"
	FormatWAV AudioFormat = "wav"
)

// Phrase is one speakable item extracted from the curriculum.
//
// Day and Index are positional: Day is the 1-based number of the speaking
// block the phrase was found in (in document order, independent of the
// curriculum's own day field), and Index is the 0-based position of the
// phrase within that block. Filename is derived solely from Day and Index,
// so editing a phrase in place reuses its old audio until a forced run.
type Phrase struct {
	// Day is the 1-based speaking-block number, or 0 for fixed
	// vocabulary entries that are not tied to a block.
	Day int

	// Index is the 0-based position within the block.
	Index int

	// Text is the literal extracted text, used for listings and logs.
	// It may still contain the {{NAME}} placeholder token.
	Text string

	// AudioText is Text with every placeholder token replaced by a
	// concrete name. This is what is actually spoken.
	AudioText string

	// Filename is the deterministic output filename for this phrase.
	Filename string
}

// Synthesis is the result of one engine call.
type Synthesis struct {
	// Audio holds the raw audio bytes in Format.
	Audio []byte

	// SampleRate is the native sample rate of Audio in Hz.
	SampleRate int

	// Format is the container format of Audio. Engines that emit WAV
	// require transcoding before the asset is stored.
	Format AudioFormat
}

// Engine is the capability of turning text into audio.
//
// Implementations may hold lazily-initialized heavy state (a loaded model)
// that is created on the first Synthesize call and reused afterwards.
// Engines are not safe for concurrent use; the orchestrator calls them
// strictly sequentially.
type Engine interface {
	// Synthesize converts text to audio using the given voice. An empty
	// voice selects the engine default.
	Synthesize(ctx context.Context, text, voice string) (*Synthesis, error)

	// Name returns the engine identifier used in configuration and logs.
	Name() string

	// DefaultVoice returns the voice used when none is specified.
	DefaultVoice() string

	// Close releases any session state held by the engine.
	Close() error
}

// RunReport aggregates the outcome of one generation run.
//
// Failed is counted explicitly rather than folded into the log output, so
// a run that silently lost items cannot masquerade as a clean one.
type RunReport struct {
	Generated int
	Skipped   int
	Failed    int
}

// Total returns the number of items the run considered.
func (r *RunReport) Total() int {
	return r.Generated + r.Skipped + r.Failed
}
