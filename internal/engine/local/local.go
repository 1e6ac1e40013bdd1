// Package local implements the locally loaded neural model engines.
//
// Both variants synthesize by invoking an external model runner binary.
// The expensive part of a run is the first call: the engine lazily builds
// a session by locating the runner on PATH and resolving the model
// artifact over candidate paths, then reuses that session for every
// subsequent call so the model is loaded once. Sessions live for one run
// and are never persisted.
package local

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/book-expert/curriculum-audio/internal/core"
	"github.com/book-expert/curriculum-audio/internal/engine/engineutil"
)

// Engine identifiers.
const (
	CosyVoiceName = "cosyvoice"
	ChatTTSName   = "chattts"
)

// Native sample rates. Each variant emits raw WAV at a fixed rate; the
// pipeline transcodes to the distribution format afterwards.
const (
	CosyVoiceSampleRate = 22050
	ChatTTSSampleRate   = 24000
)

// Default runner binaries and model artifacts.
const (
	cosyVoiceDefaultBinary = "cosyvoice-cli"
	cosyVoiceDefaultModel  = "CosyVoice-300M-SFT"
	cosyVoiceDefaultVoice  = "中文女"

	chatTTSDefaultBinary = "chattts-cli"
	chatTTSDefaultModel  = "chattts.bin"
	chatTTSDefaultVoice  = "default"
)

// Error messages.
const (
	errTextCannotBeEmpty = "text cannot be empty"
)

// Options configures a local engine. Zero values select the variant's
// defaults.
type Options struct {
	// Binary is the model runner executable name or path.
	Binary string

	// ModelPath is the model artifact name or path, resolved over the
	// candidate locations on first use.
	ModelPath string
}

// session is the lazily created heavy state of a local engine: the
// resolved runner and model artifact paths. Resolution failures are fatal
// for the engine, not per-item.
type session struct {
	binaryPath string
	modelPath  string
}

// Engine is a local neural model adapter.
type Engine struct {
	name         string
	defaultVoice string
	sampleRate   int
	opts         Options
	session      *session
}

// NewCosyVoice creates the CosyVoice variant (22050 Hz native output).
func NewCosyVoice(opts Options) *Engine {
	if opts.Binary == "" {
		opts.Binary = cosyVoiceDefaultBinary
	}

	if opts.ModelPath == "" {
		opts.ModelPath = cosyVoiceDefaultModel
	}

	return &Engine{
		name:         CosyVoiceName,
		defaultVoice: cosyVoiceDefaultVoice,
		sampleRate:   CosyVoiceSampleRate,
		opts:         opts,
		session:      nil,
	}
}

// NewChatTTS creates the ChatTTS variant (24000 Hz native output).
func NewChatTTS(opts Options) *Engine {
	if opts.Binary == "" {
		opts.Binary = chatTTSDefaultBinary
	}

	if opts.ModelPath == "" {
		opts.ModelPath = chatTTSDefaultModel
	}

	return &Engine{
		name:         ChatTTSName,
		defaultVoice: chatTTSDefaultVoice,
		sampleRate:   ChatTTSSampleRate,
		opts:         opts,
		session:      nil,
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return e.name
}

// DefaultVoice returns the voice used when none is specified.
func (e *Engine) DefaultVoice() string {
	return e.defaultVoice
}

// Close discards the session. The next Synthesize call would rebuild it.
func (e *Engine) Close() error {
	e.session = nil

	return nil
}

// Synthesize runs the model runner for one text. The first call resolves
// the runner binary and model artifact; either one missing aborts with a
// fatal error that names what to install or where the model was expected.
func (e *Engine) Synthesize(
	ctx context.Context,
	text, voice string,
) (*core.Synthesis, error) {
	if text == "" {
		return nil, fmt.Errorf("%s: %s", e.name, errTextCannotBeEmpty)
	}

	if voice == "" {
		voice = e.defaultVoice
	}

	sess, err := e.ensureSession()
	if err != nil {
		return nil, err
	}

	audioData, err := e.runSynthesis(ctx, sess, text, voice)
	if err != nil {
		return nil, err
	}

	return &core.Synthesis{
		Audio:      audioData,
		SampleRate: e.sampleRate,
		Format:     core.FormatWAV,
	}, nil
}

// ensureSession builds the session on first use and reuses it afterwards.
func (e *Engine) ensureSession() (*session, error) {
	if e.session != nil {
		return e.session, nil
	}

	binaryPath, err := engineutil.ResolveBinary(e.opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%s engine unavailable: %w", e.name, err)
	}

	modelPath, err := engineutil.ResolveModelPath(e.opts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%s engine unavailable: %w", e.name, err)
	}

	e.session = &session{
		binaryPath: binaryPath,
		modelPath:  modelPath,
	}

	return e.session, nil
}

// runSynthesis invokes the runner, which writes WAV samples to a temp
// file, and reads the result back.
func (e *Engine) runSynthesis(
	ctx context.Context,
	sess *session,
	text, voice string,
) ([]byte, error) {
	tempFile, err := os.CreateTemp("", e.name+"-output-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for synthesis output: %w", err)
	}

	tempPath := tempFile.Name()

	closeErr := tempFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	defer func() {
		_ = os.Remove(tempPath)
	}()

	args := []string{
		"--model", sess.modelPath,
		"--voice", voice,
		"--output", tempPath,
		"--text", text,
	}

	// #nosec G204 -- binary path is resolved via LookPath, args are fixed flags
	cmd := exec.CommandContext(ctx, sess.binaryPath, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf(
			"%s runner failed: %w - output: %s",
			e.name,
			err,
			string(output),
		)
	}

	audioData, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis output: %w", err)
	}

	return audioData, nil
}
