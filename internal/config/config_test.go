package config

import (
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED",
		"DB_PATH", "MATCH_THRESHOLD", "FACE_ENCODER_URL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"RATE_RPS", "RATE_BURST", "CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.WriteTimeout != 60*time.Second {
		t.Errorf("WriteTimeout = %v, want 60s", cfg.WriteTimeout)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.DBPath != "faces.db" {
		t.Errorf("DBPath = %q, want faces.db", cfg.DBPath)
	}
	if cfg.MatchThreshold != 0.45 {
		t.Errorf("MatchThreshold = %v, want 0.45", cfg.MatchThreshold)
	}
	if cfg.EncoderURL != "http://localhost:8090" {
		t.Errorf("EncoderURL = %q", cfg.EncoderURL)
	}
	if cfg.GeminiKey != "" {
		t.Errorf("GeminiKey should default empty, got %q", cfg.GeminiKey)
	}
	if cfg.GeminiModel != "gemini-flash-latest" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.OTEL.ServiceName != "fitai-backend" {
		t.Errorf("OTEL.ServiceName = %q", cfg.OTEL.ServiceName)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MATCH_THRESHOLD", "0.6")
	t.Setenv("FACE_ENCODER_URL", "http://encoder:8090/")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MatchThreshold != 0.6 {
		t.Errorf("MatchThreshold = %v", cfg.MatchThreshold)
	}
	if cfg.EncoderURL != "http://encoder:8090" {
		t.Errorf("trailing slash not trimmed: %q", cfg.EncoderURL)
	}
	if cfg.GeminiKey != "secret" {
		t.Errorf("GeminiKey = %q", cfg.GeminiKey)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LOG_LEVEL normalization: %q, want warn", cfg.LogLevel)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORS origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		k, v string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"threshold zero", "MATCH_THRESHOLD", "0"},
		{"threshold above one", "MATCH_THRESHOLD", "1.5"},
		{"negative rps", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"bad sample ratio", "OTEL_TRACES_SAMPLER_ARG", "2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.k, tc.v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.k, tc.v)
			}
		})
	}
}

func TestLoad_UnknownGinModeFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "weird")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q, want release", cfg.GinMode)
	}
}
