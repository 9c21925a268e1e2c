package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.DBPath == "" || cfg.PhotoDir == "" {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if cfg.RetentionDays != 0 {
		t.Errorf("RetentionDays = %d, want 0 (built-in default)", cfg.RetentionDays)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "db_path: /tmp/x.db\nretention_days: 30\nthumb_width: 640\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.RetentionDays != 30 || cfg.ThumbWidth != 640 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.PhotoDir == "" {
		t.Error("PhotoDir default lost on partial override")
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}
