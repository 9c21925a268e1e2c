package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/smoreno/fichaje/internal/store"
)

// Config is the top-level configuration for fichaje.
type Config struct {
	// DBPath is the sqlite database file. Defaults to
	// ~/.config/fichaje/fichaje.db.
	DBPath string `yaml:"db_path,omitempty"`

	// PhotoDir is where captured photos are stored. Defaults to
	// ~/.config/fichaje/photos.
	PhotoDir string `yaml:"photo_dir,omitempty"`

	// ReportDir is where generated PDF reports are written.
	// Defaults to the current working directory.
	ReportDir string `yaml:"report_dir,omitempty"`

	// RetentionDays controls how far back pruning keeps day records.
	// 0 means the built-in default of 90 days.
	RetentionDays int `yaml:"retention_days,omitempty"`

	// ThumbWidth is the maximum pixel width of photo thumbnails
	// embedded in reports. 0 means the built-in default of 1280.
	ThumbWidth int `yaml:"thumb_width,omitempty"`
}

// Dir is the per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "fichaje"), nil
}

func defaults() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:   dbPath,
		PhotoDir: filepath.Join(dir, "photos"),
	}, nil
}

// Load reads config.yaml from the fichaje config directory, falling
// back to defaults when the file is absent. A present but malformed
// file is an error.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return loadFrom(filepath.Join(dir, "config.yaml"))
}

func loadFrom(path string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	}
	if fileCfg.PhotoDir != "" {
		cfg.PhotoDir = fileCfg.PhotoDir
	}
	if fileCfg.ReportDir != "" {
		cfg.ReportDir = fileCfg.ReportDir
	}
	if fileCfg.RetentionDays > 0 {
		cfg.RetentionDays = fileCfg.RetentionDays
	}
	if fileCfg.ThumbWidth > 0 {
		cfg.ThumbWidth = fileCfg.ThumbWidth
	}
	return cfg, nil
}
