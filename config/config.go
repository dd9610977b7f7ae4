// Package config loads the JSON configuration file at
// ~/.config/murmur/config.json. Every key has a default; a missing file is
// not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Activation
	DoubleTapKey    string  `mapstructure:"double_tap_key"`
	DoubleTapWindow float64 `mapstructure:"double_tap_window"` // seconds
	Shortcut        string  `mapstructure:"shortcut"`          // combo fallback, e.g. "ctrl+shift+space"

	// Capture and segmentation
	Device              string  `mapstructure:"device"`
	SilenceThreshold    float64 `mapstructure:"silence_threshold"`
	SilenceDuration     float64 `mapstructure:"silence_duration"`      // seconds
	MinChunkDuration    float64 `mapstructure:"min_chunk_duration"`    // seconds
	KeepTrailingSilence bool    `mapstructure:"keep_trailing_silence"`

	// Transcription
	Backend        string `mapstructure:"transcription_backend"` // "local" or "rest-api"
	EngineCommand  string `mapstructure:"engine_command"`
	Model          string `mapstructure:"model"`
	ModelPath      string `mapstructure:"model_path"`
	Language       string `mapstructure:"language"`
	WhisperPrompt  string `mapstructure:"whisper_prompt"`
	RestEndpoint   string `mapstructure:"rest_endpoint_url"`
	RestAPIKey     string `mapstructure:"rest_api_key"`
	RestTimeoutSec int    `mapstructure:"rest_timeout"` // seconds
	Workers        int    `mapstructure:"workers"`

	// Injection
	InjectMode    string            `mapstructure:"inject_mode"` // "paste" or "type"
	AutoSubmit    bool              `mapstructure:"auto_submit"`
	WordOverrides map[string]string `mapstructure:"word_overrides"`

	// Feedback
	AudioCues bool `mapstructure:"audio_cues"`

	// History
	HistoryEnabled bool `mapstructure:"history_enabled"`
}

func (c Config) DoubleTapWindowDuration() time.Duration {
	return time.Duration(c.DoubleTapWindow * float64(time.Second))
}

func (c Config) SilenceDurationDuration() time.Duration {
	return time.Duration(c.SilenceDuration * float64(time.Second))
}

func (c Config) MinChunkDurationDuration() time.Duration {
	return time.Duration(c.MinChunkDuration * float64(time.Second))
}

func (c Config) RestTimeout() time.Duration {
	return time.Duration(c.RestTimeoutSec) * time.Second
}

// DefaultPath is ~/.config/murmur/config.json (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "murmur", "config.json"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("double_tap_key", "shift")
	v.SetDefault("double_tap_window", 0.4)
	v.SetDefault("shortcut", "")
	v.SetDefault("device", "")
	v.SetDefault("silence_threshold", 0.01)
	v.SetDefault("silence_duration", 0.7)
	v.SetDefault("min_chunk_duration", 0.3)
	v.SetDefault("keep_trailing_silence", false)
	v.SetDefault("transcription_backend", "local")
	v.SetDefault("engine_command", "whisper-cli --no-prints")
	v.SetDefault("model", "base.en")
	v.SetDefault("model_path", "")
	v.SetDefault("language", "")
	v.SetDefault("whisper_prompt", "Transcribe with proper capitalization.")
	v.SetDefault("rest_endpoint_url", "")
	v.SetDefault("rest_api_key", "")
	v.SetDefault("rest_timeout", 30)
	v.SetDefault("workers", 2)
	v.SetDefault("inject_mode", "paste")
	v.SetDefault("auto_submit", false)
	v.SetDefault("word_overrides", map[string]string{})
	v.SetDefault("audio_cues", true)
	v.SetDefault("history_enabled", true)
}

// Load reads path. A missing file yields the defaults; a malformed file is
// an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			// Defaults only.
		} else {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Secrets may be given as environment references.
	cfg.RestAPIKey = os.ExpandEnv(cfg.RestAPIKey)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "local", "rest-api":
	default:
		return fmt.Errorf("transcription_backend must be local or rest-api, got %q", c.Backend)
	}
	if c.Backend == "rest-api" && strings.TrimSpace(c.RestEndpoint) == "" {
		return fmt.Errorf("rest_endpoint_url is required with the rest-api backend")
	}
	switch c.InjectMode {
	case "paste", "type":
	default:
		return fmt.Errorf("inject_mode must be paste or type, got %q", c.InjectMode)
	}
	if c.SilenceThreshold <= 0 || c.SilenceThreshold >= 1 {
		return fmt.Errorf("silence_threshold must be in (0, 1), got %v", c.SilenceThreshold)
	}
	if c.SilenceDuration <= 0 {
		return fmt.Errorf("silence_duration must be positive")
	}
	if c.MinChunkDuration <= 0 {
		return fmt.Errorf("min_chunk_duration must be positive")
	}
	if c.DoubleTapWindow <= 0 {
		return fmt.Errorf("double_tap_window must be positive")
	}
	return nil
}
