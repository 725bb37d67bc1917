package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg := Load()

	if cfg.AppPort != "5000" {
		t.Errorf("AppPort: got %q want 5000", cfg.AppPort)
	}
	if cfg.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir: got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadSizeMB != 5 {
		t.Errorf("MaxUploadSizeMB: got %d want 5", cfg.MaxUploadSizeMB)
	}
	if cfg.MaxImagesPerSubmission != 5 {
		t.Errorf("MaxImagesPerSubmission: got %d want 5", cfg.MaxImagesPerSubmission)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("APP_PORT", "8123")
	t.Setenv("BASE_URL", "https://pics.example.com")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.AppPort != "8123" {
		t.Errorf("AppPort: got %q", cfg.AppPort)
	}
	if cfg.BaseURL != "https://pics.example.com" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.MaxUploadSizeMB != 10 {
		t.Errorf("MaxUploadSizeMB: got %d", cfg.MaxUploadSizeMB)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != want[0] || cfg.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins: got %v want %v", cfg.AllowedOrigins, want)
	}
}

func TestGetCachesLoadedConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("APP_PORT", "9001")

	first := Load()
	t.Setenv("APP_PORT", "9002")
	second := Get()

	if first.AppPort != "9001" || second.AppPort != "9001" {
		t.Errorf("config not cached: first=%q second=%q", first.AppPort, second.AppPort)
	}
}
