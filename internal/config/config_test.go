package config

import (
	"os"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	for _, key := range []string{"KEYWORDS_FILE", "LINKS_FILE", "SESSION_DB", "AUTO_JOIN"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.KeywordsFile != "config.txt" {
		t.Errorf("KeywordsFile = %q, want %q", cfg.KeywordsFile, "config.txt")
	}
	if cfg.LinksFile != "links_to_clean.txt" {
		t.Errorf("LinksFile = %q, want %q", cfg.LinksFile, "links_to_clean.txt")
	}
	if cfg.SessionDB != "tcleaner_session.db" {
		t.Errorf("SessionDB = %q, want %q", cfg.SessionDB, "tcleaner_session.db")
	}
	if !cfg.AutoJoin {
		t.Error("AutoJoin = false, want true by default")
	}
}

func TestConfig_FromEnv(t *testing.T) {
	os.Setenv("TG_API_ID", "12345")
	os.Setenv("AUTO_JOIN", "false")
	defer os.Unsetenv("TG_API_ID")
	defer os.Unsetenv("AUTO_JOIN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TGApiID != 12345 {
		t.Errorf("TGApiID = %d, want 12345", cfg.TGApiID)
	}
	if cfg.AutoJoin {
		t.Error("AutoJoin = true, want false")
	}
}

func TestConfig_BadIntFallsBack(t *testing.T) {
	os.Setenv("TG_API_ID", "not-a-number")
	defer os.Unsetenv("TG_API_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TGApiID != 0 {
		t.Errorf("TGApiID = %d, want 0 for unparsable value", cfg.TGApiID)
	}
}
