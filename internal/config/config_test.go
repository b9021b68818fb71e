package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "LOG_LEVEL", "POSTGRES_DSN", "GEMINI_API_KEY",
		"GEMINI_TEXT_MODEL", "GEMINI_VISION_MODEL", "ACCESS_KEY", "MAX_UPLOAD_BYTES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GeminiTextModel != "gemini-2.5-flash" {
		t.Errorf("GeminiTextModel = %q", cfg.GeminiTextModel)
	}
	if cfg.GeminiVisionModel != "gemini-3-pro-preview" {
		t.Errorf("GeminiVisionModel = %q", cfg.GeminiVisionModel)
	}
	if cfg.AccessKey != "" {
		t.Errorf("AccessKey = %q", cfg.AccessKey)
	}
	if cfg.MaxUploadBytes != 15<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ACCESS_KEY", "secret")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()

	if cfg.APIPort != "9090" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.AccessKey != "secret" {
		t.Errorf("AccessKey = %q", cfg.AccessKey)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadIgnoresMalformedUploadLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()

	if cfg.MaxUploadBytes != 15<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}
