package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/book-expert/curriculum-audio/internal/assetstore"
	"github.com/book-expert/curriculum-audio/internal/orchestrator"
	"github.com/book-expert/curriculum-audio/internal/transcode"
)

// Default output for ad hoc synthesis.
const defaultSpeakOutput = "output.mp3"

func newSpeakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize one ad hoc text to one output file",
		RunE:  runSpeak,
	}

	cmd.Flags().String("text", "", "Text to synthesize")
	cmd.Flags().String("output", defaultSpeakOutput, "Output file path")
	cmd.Flags().String("engine", "", "TTS engine (edge, cosyvoice, chattts)")
	cmd.Flags().String("voice", "", "Voice to use (engine-specific)")

	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func runSpeak(cmd *cobra.Command, _ []string) error {
	application, err := setup()
	if err != nil {
		return err
	}
	defer application.close()

	text, _ := cmd.Flags().GetString("text")
	output, _ := cmd.Flags().GetString("output")
	engineFlag, _ := cmd.Flags().GetString("engine")
	voiceFlag, _ := cmd.Flags().GetString("voice")

	engineName, err := application.resolveEngineName(engineFlag)
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	orch := orchestrator.New(
		engine,
		assetstore.New(application.cfg.Paths.AudioDir),
		transcode.New(),
		application.log,
	)

	runErr := orch.RunSingle(ctx, text, output, voice)
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Generated: %s\n", output)

	return nil
}
