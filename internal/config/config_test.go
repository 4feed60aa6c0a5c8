package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// The developer's shell may export any of these; clear them so the
	// defaults are actually exercised. t.Setenv registers the restore,
	// Unsetenv removes the key (set-but-empty is not the same as unset).
	for _, key := range []string{
		"CHATLOOM_DB", "CHATLOOM_ADDR", "CHATLOOM_SYSTEM_PROMPT",
		"CHATLOOM_REQUEST_TIMEOUT", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"OPENAI_MODEL",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabasePath != "chatloom.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "chatloom.db")
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.RequestTimeout)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CHATLOOM_DB", "/tmp/alt.db")
	t.Setenv("CHATLOOM_ADDR", ":9999")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("CHATLOOM_REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DatabasePath != "/tmp/alt.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/tmp/alt.db")
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9999")
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want %q", cfg.OpenAIAPIKey, "sk-test")
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("OpenAIModel = %q, want %q", cfg.OpenAIModel, "gpt-4o")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
}

func TestRequireProvider(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireProvider(); err == nil {
		t.Error("RequireProvider() expected error without API key")
	}

	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.RequireProvider(); err != nil {
		t.Errorf("RequireProvider() error = %v, want nil", err)
	}
}
