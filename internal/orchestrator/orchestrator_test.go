// Package orchestrator_test tests the generation run state machine.
package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/curriculum-audio/internal/assetstore"
	"github.com/book-expert/curriculum-audio/internal/core"
	"github.com/book-expert/curriculum-audio/internal/engine/engineutil"
	"github.com/book-expert/curriculum-audio/internal/orchestrator"
	"github.com/book-expert/curriculum-audio/internal/transcode"
)

var errTransient = errors.New("transient model error")

// mockEngine is an in-memory core.Engine for exercising the run loop.
type mockEngine struct {
	calls  []string
	failOn map[string]error
	format core.AudioFormat
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		calls:  nil,
		failOn: map[string]error{},
		format: core.FormatMP3,
	}
}

func (m *mockEngine) Synthesize(
	_ context.Context,
	text, _ string,
) (*core.Synthesis, error) {
	m.calls = append(m.calls, text)

	if err, ok := m.failOn[text]; ok {
		return nil, err
	}

	return &core.Synthesis{
		Audio:      []byte("audio:" + text),
		SampleRate: 24000,
		Format:     m.format,
	}, nil
}

func (m *mockEngine) Name() string         { return "mock" }
func (m *mockEngine) DefaultVoice() string { return "default" }
func (m *mockEngine) Close() error         { return nil }

func testPhrases(n int) []core.Phrase {
	phrases := make([]core.Phrase, 0, n)

	for i := range n {
		text := fmt.Sprintf("phrase-%d", i)

		phrases = append(phrases, core.Phrase{
			Day:       1,
			Index:     i,
			Text:      text,
			AudioText: text,
			Filename:  fmt.Sprintf("day1_speaking_phrase%d.mp3", i),
		})
	}

	return phrases
}

func newTestOrchestrator(
	t *testing.T,
	engine core.Engine,
) (*orchestrator.Orchestrator, *assetstore.Store) {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	store := assetstore.New(t.TempDir())
	encoder := transcode.NewWithBinary("")

	return orchestrator.New(engine, store, encoder, testLogger), store
}

func TestRunGeneratesMissingAssets(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, store := newTestOrchestrator(t, engine)

	report, err := orch.Run(context.Background(), testPhrases(3), orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Generated)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	for i := range 3 {
		assert.True(t, store.Exists(fmt.Sprintf("day1_speaking_phrase%d.mp3", i)))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, _ := newTestOrchestrator(t, engine)
	phrases := testPhrases(3)

	first, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Generated)

	second, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 3, second.Skipped)
	assert.Len(t, engine.calls, 3, "second run must not call the engine")
}

func TestRunForceRegeneratesEverything(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, _ := newTestOrchestrator(t, engine)
	phrases := testPhrases(2)

	_, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err)

	report, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, engine.calls, 4)
}

func TestDryRunIsPure(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, store := newTestOrchestrator(t, engine)
	phrases := testPhrases(2)

	// Pre-existing asset: dry-run must neither delete nor recreate it,
	// even with force.
	require.NoError(t, store.Write(phrases[0].Filename, []byte("old")))

	report, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: true,
		Force:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Generated)
	assert.Empty(t, engine.calls, "dry-run must never invoke the engine")

	data, readErr := os.ReadFile(store.Path(phrases[0].Filename))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old"), data)
	assert.False(t, store.Exists(phrases[1].Filename))
}

func TestDryRunStillReportsSkips(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, store := newTestOrchestrator(t, engine)
	phrases := testPhrases(2)

	require.NoError(t, store.Write(phrases[0].Filename, []byte("old")))

	report, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: true,
		Force:  false,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Generated)
	assert.Empty(t, engine.calls)
}

func TestRunIsolatesItemFailures(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	engine.failOn["phrase-2"] = errTransient

	orch, store := newTestOrchestrator(t, engine)

	report, err := orch.Run(context.Background(), testPhrases(5), orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err, "a per-item failure must not abort the run")

	assert.Equal(t, 4, report.Generated)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, engine.calls, 5, "later items must still be attempted")
	assert.False(t, store.Exists("day1_speaking_phrase2.mp3"))
	assert.True(t, store.Exists("day1_speaking_phrase4.mp3"))
}

func TestRunAbortsOnFatalEngineError(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	engine.failOn["phrase-0"] = fmt.Errorf(
		"cosyvoice engine unavailable: %w",
		engineutil.ErrModelNotFound,
	)

	orch, _ := newTestOrchestrator(t, engine)

	report, err := orch.Run(context.Background(), testPhrases(3), orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, engineutil.ErrModelNotFound)
	assert.Equal(t, 0, report.Generated)
	assert.Len(t, engine.calls, 1, "no further items after a fatal error")
}

func TestRunStopsBetweenItemsOnCancel(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, _ := newTestOrchestrator(t, engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := orch.Run(ctx, testPhrases(3), orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.Error(t, err)
	assert.Equal(t, 0, report.Total())
	assert.Empty(t, engine.calls)
}

func TestDegradedModeDeliversNativeFormat(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	engine.format = core.FormatWAV

	orch, store := newTestOrchestrator(t, engine)
	phrases := testPhrases(1)

	report, err := orch.Run(context.Background(), phrases, orchestrator.Options{
		Voice:  "",
		DryRun: false,
		Force:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Generated)

	// Native WAV bytes land under the .mp3 filename.
	data, readErr := os.ReadFile(store.Path(phrases[0].Filename))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("audio:phrase-0"), data)
}

func TestRunSingleWritesAdHocOutput(t *testing.T) {
	t.Parallel()

	engine := newMockEngine()
	orch, _ := newTestOrchestrator(t, engine)

	outputPath := filepath.Join(t.TempDir(), "hello.mp3")

	err := orch.RunSingle(context.Background(), "你好", outputPath, "")
	require.NoError(t, err)

	data, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("audio:你好"), data)
}
