package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration directory name under $HOME
	DefaultBaseDir = ".inspiration"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk service configuration.
type Config struct {
	// Listen is the HTTP listen address for serve
	Listen string `yaml:"listen,omitempty"`

	// Workers caps concurrent analysis jobs
	Workers int `yaml:"workers,omitempty"`

	// MaxUploadBytes caps one WebSocket request message
	MaxUploadBytes int64 `yaml:"max_upload_bytes,omitempty"`

	// MaxClipBytes caps one staged clip within a request (default 100 MiB)
	MaxClipBytes int64 `yaml:"max_clip_bytes,omitempty"`

	// FFmpeg and FFprobe override the demuxer binaries (default: PATH lookup)
	FFmpeg  string `yaml:"ffmpeg,omitempty"`
	FFprobe string `yaml:"ffprobe,omitempty"`

	// STT configures the speech recognition backend
	STT STTConfig `yaml:"stt,omitempty"`

	// Vision configures the landmark detector sidecar
	Vision VisionConfig `yaml:"vision,omitempty"`
}

// STTConfig holds credentials for an OpenAI-compatible transcription
// endpoint.
type STTConfig struct {
	// BaseURL points at a compatible provider (empty = official API)
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey authenticates requests; OPENAI_API_KEY takes precedence
	APIKey string `yaml:"api_key,omitempty"`

	// Model overrides the default whisper-1
	Model string `yaml:"model,omitempty"`
}

// VisionConfig holds the detector sidecar endpoints. Empty URLs
// disable the corresponding detector.
type VisionConfig struct {
	PoseURL string `yaml:"pose_url,omitempty"`
	FaceURL string `yaml:"face_url,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Listen:  ":8080",
		Workers: 2,
		FFmpeg:  "ffmpeg",
		FFprobe: "ffprobe",
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// LoadConfig reads the config file at path, filling unset fields with
// defaults. An empty path means DefaultConfigPath; a missing file at
// the default location is not an error.
func LoadConfig(path string) (*Config, error) {
	usingDefault := path == ""
	if usingDefault {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && usingDefault {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the STT key, preferring the environment over
// the config file so keys stay out of dotfiles.
func (c *Config) ResolveAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return c.STT.APIKey
}
