// Package orchestrator drives the generation run: it walks the extracted
// phrases in document order, consults the asset store, and invokes the
// selected engine for every phrase that still needs audio.
//
// Processing is strictly sequential. Local engines hold one exclusive
// in-memory model session that is not designed for concurrent invocation,
// so there is deliberately no fan-out across items; ordering is therefore
// deterministic and matches extraction order.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/book-expert/logger"

	"github.com/book-expert/curriculum-audio/internal/assetstore"
	"github.com/book-expert/curriculum-audio/internal/audio"
	"github.com/book-expert/curriculum-audio/internal/core"
	"github.com/book-expert/curriculum-audio/internal/engine/engineutil"
	"github.com/book-expert/curriculum-audio/internal/transcode"
)

// Log formats.
const (
	logFmtSkipped        = "[skip] %s (already exists)"
	logFmtWouldGenerate  = "[would generate] %s - %s"
	logFmtGenerating     = "[generating] %s - %s"
	logFmtGenerated      = "Generated %s (%d bytes)"
	logFmtGeneratedTimed = "Generated %s (%d bytes, %s)"
	logFmtItemFailed     = "Failed to generate %s: %v"
	logFmtForceRemoved   = "[force] removed %s"
	logFmtDegradedMode   = "Transcoding tool unavailable; delivering native %s audio as %s"
)

// Error formats.
const (
	errFmtForceRemoval = "force removal of %s failed: %w"
	errFmtTranscode    = "post-processing failed: %w"
)

// Options selects the execution mode of a run.
type Options struct {
	// Voice overrides the engine's default voice when non-empty.
	Voice string

	// DryRun simulates the run: no engine calls, no filesystem writes,
	// no deletions.
	DryRun bool

	// Force deletes existing assets for all selected items before the
	// run starts, so every item is regenerated.
	Force bool
}

// Orchestrator coordinates one generation run.
type Orchestrator struct {
	engine  core.Engine
	store   *assetstore.Store
	encoder *transcode.Encoder
	log     *logger.Logger
}

// New creates an orchestrator around one engine, one asset store, and one
// encoder. The orchestrator owns the engine session for the duration of a
// run; callers close the engine after the run ends.
func New(
	engine core.Engine,
	store *assetstore.Store,
	encoder *transcode.Encoder,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		engine:  engine,
		store:   store,
		encoder: encoder,
		log:     log,
	}
}

// Run processes every phrase and returns the aggregate report.
//
// One phrase failing never aborts the batch: the failure is logged with
// the phrase identity, counted, and the loop continues. Fatal engine
// preconditions (missing binary or model artifact) abort immediately, as
// does context cancellation between items. The partial report is returned
// alongside the error in both cases.
func (o *Orchestrator) Run(
	ctx context.Context,
	phrases []core.Phrase,
	opts Options,
) (*core.RunReport, error) {
	report := &core.RunReport{Generated: 0, Skipped: 0, Failed: 0}

	// Eager deletion pass: after it, every selected item behaves as if
	// absent. Skipped in dry-run mode, which must never delete.
	if opts.Force && !opts.DryRun {
		err := o.removeExisting(phrases)
		if err != nil {
			return report, err
		}
	}

	for _, phrase := range phrases {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("run interrupted: %w", ctx.Err())
		default:
		}

		if o.store.Exists(phrase.Filename) && !opts.Force {
			o.log.Info(logFmtSkipped, phrase.Filename)

			report.Skipped++

			continue
		}

		if opts.DryRun {
			o.log.Info(logFmtWouldGenerate, phrase.Filename, phrase.Text)

			continue
		}

		err := o.generateOne(ctx, phrase, opts.Voice)
		if err != nil {
			if isFatal(err) {
				return report, err
			}

			o.log.Error(logFmtItemFailed, phrase.Filename, err)

			report.Failed++

			continue
		}

		report.Generated++
	}

	return report, nil
}

// RunSingle synthesizes one ad hoc text to one ad hoc output path,
// bypassing extraction and the skip logic entirely.
func (o *Orchestrator) RunSingle(ctx context.Context, text, outputPath, voice string) error {
	data, err := o.synthesizeAndEncode(ctx, text, voice, outputPath)
	if err != nil {
		return err
	}

	store := assetstore.New(filepath.Dir(outputPath))

	writeErr := store.Write(filepath.Base(outputPath), data)
	if writeErr != nil {
		return writeErr
	}

	o.log.Info(logFmtGenerated, outputPath, len(data))

	return nil
}

// removeExisting deletes the assets of all selected phrases. Removal
// errors are fatal: a half-cleaned store would make force-mode converge to
// a mix of old and new audio.
func (o *Orchestrator) removeExisting(phrases []core.Phrase) error {
	for _, phrase := range phrases {
		if !o.store.Exists(phrase.Filename) {
			continue
		}

		err := o.store.Remove(phrase.Filename)
		if err != nil {
			return fmt.Errorf(errFmtForceRemoval, phrase.Filename, err)
		}

		o.log.Info(logFmtForceRemoved, phrase.Filename)
	}

	return nil
}

// generateOne runs synthesis and post-processing for one phrase and stores
// the asset. The asset file appears only after the complete result is
// available.
func (o *Orchestrator) generateOne(ctx context.Context, phrase core.Phrase, voice string) error {
	o.log.Info(logFmtGenerating, phrase.Filename, phrase.AudioText)

	data, err := o.synthesizeAndEncode(ctx, phrase.AudioText, voice, phrase.Filename)
	if err != nil {
		return err
	}

	writeErr := o.store.Write(phrase.Filename, data)
	if writeErr != nil {
		return writeErr
	}

	o.reportGenerated(phrase.Filename, data)

	return nil
}

// synthesizeAndEncode invokes the engine and encodes WAV output to the
// distribution format. When the transcoding tool is unavailable the native
// bytes are delivered unchanged under the target name: degraded mode,
// logged as a fallback notice.
func (o *Orchestrator) synthesizeAndEncode(
	ctx context.Context,
	text, voice, targetName string,
) ([]byte, error) {
	synthesis, err := o.engine.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	if synthesis.Format != core.FormatWAV {
		return synthesis.Audio, nil
	}

	if !o.encoder.Available() {
		o.log.Warn(logFmtDegradedMode, synthesis.Format, targetName)

		return synthesis.Audio, nil
	}

	mp3Data, encodeErr := o.encoder.ToMP3(ctx, synthesis.Audio, synthesis.SampleRate)
	if encodeErr != nil {
		return nil, fmt.Errorf(errFmtTranscode, encodeErr)
	}

	return mp3Data, nil
}

// reportGenerated logs the stored asset, with playback duration when the
// data probes as MP3.
func (o *Orchestrator) reportGenerated(filename string, data []byte) {
	duration, err := audio.MP3Duration(data)
	if err != nil {
		o.log.Info(logFmtGenerated, filename, len(data))

		return
	}

	o.log.Info(logFmtGeneratedTimed, filename, len(data), duration)
}

// isFatal reports whether an engine error is a run-level precondition
// failure rather than a per-item error.
func isFatal(err error) bool {
	return errors.Is(err, engineutil.ErrBinaryNotFound) ||
		errors.Is(err, engineutil.ErrModelNotFound)
}
