package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnv = []string{
	"ADDRESS", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	"PLATFORM_API_LEVEL", "STORAGE_ROOT", "PICTURES_DIR", "DOWNLOADS_DIR", "SQLITE_DB_PATH",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Address != ":8080" {
		t.Errorf("Address = %q, want :8080", cfg.Address)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.Platform.APILevel != 29 {
		t.Errorf("APILevel = %d, want 29", cfg.Platform.APILevel)
	}
	if cfg.Platform.PicturesDir != filepath.Join("storage", "Pictures") {
		t.Errorf("PicturesDir = %q", cfg.Platform.PicturesDir)
	}
	if cfg.Platform.DownloadsDir != filepath.Join("storage", "Download") {
		t.Errorf("DownloadsDir = %q", cfg.Platform.DownloadsDir)
	}
	if cfg.SQLite.Path != "./gallery.db" {
		t.Errorf("SQLite.Path = %q, want ./gallery.db", cfg.SQLite.Path)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDRESS", "127.0.0.1:9000")
	t.Setenv("PLATFORM_API_LEVEL", "28")
	t.Setenv("STORAGE_ROOT", "/data/media")
	t.Setenv("DOWNLOADS_DIR", "/sdcard/Download")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SQLITE_DB_PATH", "/data/index.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Errorf("Address = %q", cfg.Address)
	}
	if cfg.Platform.APILevel != 28 {
		t.Errorf("APILevel = %d, want 28", cfg.Platform.APILevel)
	}
	if cfg.Platform.PicturesDir != "/data/media/Pictures" {
		t.Errorf("PicturesDir = %q", cfg.Platform.PicturesDir)
	}
	if cfg.Platform.DownloadsDir != "/sdcard/Download" {
		t.Errorf("DownloadsDir = %q", cfg.Platform.DownloadsDir)
	}
	if cfg.SQLite.Path != "/data/index.db" {
		t.Errorf("SQLite.Path = %q", cfg.SQLite.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"api level not a number", "PLATFORM_API_LEVEL", "Q"},
		{"api level zero", "PLATFORM_API_LEVEL", "0"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.val)
			}
		})
	}
}
