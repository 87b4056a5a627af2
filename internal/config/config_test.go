package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "ANALYZER_MODEL",
		"AZURE_SPEECH_KEY", "AZURE_SPEECH_REGION", "GOOGLE_TTS_API_KEY",
		"OPENAI_API_KEY", "ELEVENLABS_API_KEY", "FFMPEG_BINARY", "STORAGE_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Quota.MonthlyCap != 500000 {
		t.Fatalf("monthly cap = %d, want 500000", cfg.Quota.MonthlyCap)
	}
	if cfg.Synthesis.DialogueConcurrency != 3 {
		t.Fatalf("dialogue concurrency = %d, want 3", cfg.Synthesis.DialogueConcurrency)
	}
	if cfg.Audio.MusicGainDB != -20 {
		t.Fatalf("music gain = %v, want -20", cfg.Audio.MusicGainDB)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("port = %d, want default", cfg.Server.Port)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  port: 9001\nquota:\n  monthly_cap: 1000\naudio:\n  music_path: bgm.mp3\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Fatalf("port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Quota.MonthlyCap != 1000 {
		t.Fatalf("monthly cap = %d, want 1000", cfg.Quota.MonthlyCap)
	}
	if cfg.Audio.MusicPath != "bgm.mp3" {
		t.Fatalf("music path = %q", cfg.Audio.MusicPath)
	}
	// 未覆盖的项保留默认值
	if cfg.Quota.UsageFile != "tts_usage.json" {
		t.Fatalf("usage file = %q, want default", cfg.Quota.UsageFile)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("AZURE_SPEECH_KEY", "secret")
	t.Setenv("AZURE_SPEECH_REGION", "westus")
	t.Setenv("STORAGE_DIR", "/tmp/store")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Azure.Key != "secret" || cfg.Azure.Region != "westus" {
		t.Fatalf("azure config = %+v", cfg.Azure)
	}
	if cfg.Storage.Dir != "/tmp/store" {
		t.Fatalf("storage dir = %q", cfg.Storage.Dir)
	}
}

func TestLoadBrokenYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("broken yaml should fail")
	}
}
