package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/book-expert/curriculum-audio/internal/assetstore"
	"github.com/book-expert/curriculum-audio/internal/core"
	"github.com/book-expert/curriculum-audio/internal/curriculum"
	"github.com/book-expert/curriculum-audio/internal/orchestrator"
	"github.com/book-expert/curriculum-audio/internal/transcode"
)

// Progress and summary output.
const (
	msgFmtFoundPhrases = "Found %d speaking phrases and %d names\n"
	msgFmtUsingEngine  = "Generating audio with engine %s, voice %s\n"
	msgFmtSummary      = "Done! Generated: %d, Skipped: %d, Failed: %d\n"
	msgDryRun          = "Dry run: no audio was generated.\n"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate audio for all missing phrases",
		RunE:  runGenerate,
	}

	cmd.Flags().String("engine", "", "TTS engine (edge, cosyvoice, chattts)")
	cmd.Flags().String("voice", "", "Voice to use (engine-specific)")
	cmd.Flags().Bool("dry-run", false, "Show what would be generated without synthesizing")
	cmd.Flags().Bool("force", false, "Delete existing audio for selected phrases and regenerate")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	application, err := setup()
	if err != nil {
		return err
	}
	defer application.close()

	engineFlag, _ := cmd.Flags().GetString("engine")
	voiceFlag, _ := cmd.Flags().GetString("voice")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	engineName, err := application.resolveEngineName(engineFlag)
	if err != nil {
		return err
	}

	phrases, err := collectPhrases(application)
	if err != nil {
		return err
	}

	engine, err := application.newEngine(engineName)
	if err != nil {
		return err
	}

	defer func() {
		_ = engine.Close()
	}()

	voice := application.resolveVoice(voiceFlag)
	if voice == "" {
		voice = engine.DefaultVoice()
	}

	fmt.Printf(msgFmtUsingEngine, engine.Name(), voice)

	// Interrupts stop the run between items; no partial asset is left
	// behind because writes are all-or-nothing.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	orch := orchestrator.New(
		engine,
		assetstore.New(application.cfg.Paths.AudioDir),
		transcode.New(),
		application.log,
	)

	report, runErr := orch.Run(ctx, phrases, orchestrator.Options{
		Voice:  voice,
		DryRun: dryRun,
		Force:  force,
	})

	if dryRun {
		fmt.Print(msgDryRun)
	}

	fmt.Printf(msgFmtSummary, report.Generated, report.Skipped, report.Failed)

	if runErr != nil {
		return runErr
	}

	return nil
}

// collectPhrases scans the curriculum document and appends the fixed name
// vocabulary. A missing document is fatal.
func collectPhrases(application *app) ([]core.Phrase, error) {
	scanner := curriculum.NewScanner(application.cfg.TTS.PlaceholderName)

	phrases, err := scanner.ScanFile(application.cfg.Paths.CurriculumFile)
	if err != nil {
		return nil, err
	}

	names := scanner.NamePhrases()

	fmt.Printf(msgFmtFoundPhrases, len(phrases), len(names))

	return append(phrases, names...), nil
}
