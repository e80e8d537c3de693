package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" || cfg.Workers != 2 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigExplicitMissingFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() error = nil for missing explicit path")
	}
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen: ":9000"
max_upload_bytes: 500000000
stt:
  api_key: sk-test
  model: whisper-large
vision:
  pose_url: http://localhost:9001/pose
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want default 2", cfg.Workers)
	}
	if cfg.FFmpeg != "ffmpeg" {
		t.Errorf("FFmpeg = %q, want default", cfg.FFmpeg)
	}
	if cfg.STT.Model != "whisper-large" {
		t.Errorf("STT.Model = %q", cfg.STT.Model)
	}
	if cfg.Vision.PoseURL != "http://localhost:9001/pose" {
		t.Errorf("Vision.PoseURL = %q", cfg.Vision.PoseURL)
	}
	// The message cap is independent of the per-clip cap: raising one
	// must not raise the other.
	if cfg.MaxUploadBytes != 500000000 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxClipBytes != 0 {
		t.Errorf("MaxClipBytes = %d, want 0 (built-in default applies)", cfg.MaxClipBytes)
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Workers = 7
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Workers != 7 {
		t.Errorf("Workers = %d, want 7", loaded.Workers)
	}
}

func TestResolveAPIKeyPrefersEnv(t *testing.T) {
	cfg := &Config{STT: STTConfig{APIKey: "from-file"}}

	t.Setenv("OPENAI_API_KEY", "from-env")
	if got := cfg.ResolveAPIKey(); got != "from-env" {
		t.Errorf("ResolveAPIKey() = %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "")
	if got := cfg.ResolveAPIKey(); got != "from-file" {
		t.Errorf("ResolveAPIKey() = %q", got)
	}
}
