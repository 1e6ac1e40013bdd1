// Package config provides the configuration structure for curriculum-audio.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
)

// Engine identifiers accepted in configuration.
const (
	EngineEdge      = "edge"
	EngineCosyVoice = "cosyvoice"
	EngineChatTTS   = "chattts"
)

// Defaults applied after loading.
const (
	defaultCurriculumFile  = "daily-curriculum.js"
	defaultAudioDir        = "audio"
	defaultEngine          = EngineEdge
	defaultPlaceholderName = "小明"
	defaultTimeoutSeconds  = 120
)

// Environment variable names.
const (
	envEdgeToken = "EDGE_TTS_TOKEN"
)

// ErrUnknownEngine indicates that the configured engine name is not recognized.
var ErrUnknownEngine = errors.New("unknown engine")

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	CurriculumFile string `toml:"curriculum_file"`
	AudioDir       string `toml:"audio_dir"`
	BaseLogsDir    string `toml:"base_logs_dir"`
}

// TTSConfig holds the generation options shared by all engines.
type TTSConfig struct {
	Engine          string `toml:"engine"`
	Voice           string `toml:"voice"`
	PlaceholderName string `toml:"placeholder_name"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// EdgeConfig holds the configuration for the hosted voice service.
type EdgeConfig struct {
	ServiceURL string `toml:"service_url"`
	APIToken   string `toml:"api_token"`
}

// LocalEngineConfig holds the configuration for one local model engine.
type LocalEngineConfig struct {
	ModelPath string `toml:"model_path"`
	Binary    string `toml:"binary"`
}

// EnginesConfig groups the per-engine sections.
type EnginesConfig struct {
	Edge      EdgeConfig        `toml:"edge"`
	CosyVoice LocalEngineConfig `toml:"cosyvoice"`
	ChatTTS   LocalEngineConfig `toml:"chattts"`
}

// Config is the root configuration structure.
type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	TTS     TTSConfig     `toml:"tts"`
	Engines EnginesConfig `toml:"engines"`
}

// Load loads the configuration for curriculum-audio, applies defaults, and
// overlays secrets from the environment.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadEnv overlays values from a .env file, when one exists, and then from
// the process environment. A missing .env file is not an error.
func (c *Config) LoadEnv() {
	// godotenv only reports an error when the file cannot be read; the
	// common case of no .env file at all falls through to the process
	// environment below.
	_ = godotenv.Load()

	if token := os.Getenv(envEdgeToken); token != "" {
		c.Engines.Edge.APIToken = token
	}
}

// Validate checks that the configured engine name is recognized.
func (c *Config) Validate() error {
	switch c.TTS.Engine {
	case EngineEdge, EngineCosyVoice, EngineChatTTS:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.TTS.Engine)
	}
}

func (c *Config) applyDefaults() {
	if c.Paths.CurriculumFile == "" {
		c.Paths.CurriculumFile = defaultCurriculumFile
	}

	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = defaultAudioDir
	}

	if c.TTS.Engine == "" {
		c.TTS.Engine = defaultEngine
	}

	if c.TTS.PlaceholderName == "" {
		c.TTS.PlaceholderName = defaultPlaceholderName
	}

	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTimeoutSeconds
	}
}
