// Command curriculum-audio generates TTS audio for the speaking phrases of
// the daily curriculum.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/book-expert/curriculum-audio/internal/config"
	"github.com/book-expert/curriculum-audio/internal/core"
	"github.com/book-expert/curriculum-audio/internal/engine/edge"
	"github.com/book-expert/curriculum-audio/internal/engine/local"
)

// Log file names.
const (
	bootstrapLogFileName = "curriculum-audio-bootstrap.log"
	logFileName          = "curriculum-audio.log"
)

// ErrNoEngineForName indicates an engine name with no adapter. Engine
// names are validated at config load, so hitting this means a flag
// bypassed validation.
var ErrNoEngineForName = errors.New("no engine adapter for name")

// app bundles the loaded configuration and logger shared by subcommands.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curriculum-audio",
		Short: "Generate TTS audio for the daily curriculum",
		Long: "curriculum-audio extracts speaking phrases from the daily " +
			"curriculum document and generates one audio file per phrase, " +
			"skipping files that already exist.",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newGenerateCmd(),
		newListCmd(),
		newSpeakCmd(),
	)

	return cmd
}

// setup loads configuration (bootstrap logger first, then the final logger
// from the configured log directory) and overlays environment secrets.
func setup() (*app, error) {
	bootstrapLog, err := logger.New(os.TempDir(), bootstrapLogFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.LoadEnv()

	logDir := cfg.Paths.BaseLogsDir
	if logDir == "" {
		logDir = os.TempDir()
	}

	finalLog, err := logger.New(logDir, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{cfg: cfg, log: finalLog}, nil
}

// close releases the logger; called by subcommands via defer.
func (a *app) close() {
	closeErr := a.log.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
	}
}

// newEngine builds the engine adapter selected by name.
func (a *app) newEngine(name string) (core.Engine, error) {
	timeout := time.Duration(a.cfg.TTS.TimeoutSeconds) * time.Second

	switch name {
	case config.EngineEdge:
		return edge.New(
			a.cfg.Engines.Edge.ServiceURL,
			a.cfg.Engines.Edge.APIToken,
			timeout,
		), nil
	case config.EngineCosyVoice:
		return local.NewCosyVoice(local.Options{
			Binary:    a.cfg.Engines.CosyVoice.Binary,
			ModelPath: a.cfg.Engines.CosyVoice.ModelPath,
		}), nil
	case config.EngineChatTTS:
		return local.NewChatTTS(local.Options{
			Binary:    a.cfg.Engines.ChatTTS.Binary,
			ModelPath: a.cfg.Engines.ChatTTS.ModelPath,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoEngineForName, name)
	}
}

// resolveEngineName applies the --engine flag over the configured default.
func (a *app) resolveEngineName(flagValue string) (string, error) {
	name := a.cfg.TTS.Engine
	if flagValue != "" {
		name = flagValue
	}

	switch name {
	case config.EngineEdge, config.EngineCosyVoice, config.EngineChatTTS:
		return name, nil
	default:
		return "", fmt.Errorf("%w: %q", config.ErrUnknownEngine, name)
	}
}

// resolveVoice applies the --voice flag over the configured default.
func (a *app) resolveVoice(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	return a.cfg.TTS.Voice
}
