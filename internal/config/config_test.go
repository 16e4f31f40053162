package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 104857600 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 104857600)
	}
	if cfg.Cleanse.MaxRuns != 32 {
		t.Errorf("Cleanse.MaxRuns = %d, want %d", cfg.Cleanse.MaxRuns, 32)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("CLEANSE_MAX_RUNS", "4")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("CLEANSE_MAX_RUNS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Cleanse.MaxRuns != 4 {
		t.Errorf("Cleanse.MaxRuns = %d, want %d", cfg.Cleanse.MaxRuns, 4)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	os.Setenv("SERVER_SHUTDOWN_TIMEOUT", "45s")
	defer os.Unsetenv("SERVER_SHUTDOWN_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ShutdownTimeout != 45*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 45*time.Second)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"bad port", "SERVER_PORT", "not-a-number"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad duration", "SERVER_SHUTDOWN_TIMEOUT", "soon"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"zero max runs", "CLEANSE_MAX_RUNS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.env, tt.value)
			defer os.Unsetenv(tt.env)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should have failed", tt.env, tt.value)
			}
		})
	}
}

func TestLoad_ProhibitedTermsList(t *testing.T) {
	os.Setenv("CLEANSE_EXTRA_PROHIBITED_TERMS", "spamco, badword ,")
	defer os.Unsetenv("CLEANSE_EXTRA_PROHIBITED_TERMS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Cleanse.ExtraProhibitedTerms) != 2 {
		t.Fatalf("ExtraProhibitedTerms = %v, want 2 entries", cfg.Cleanse.ExtraProhibitedTerms)
	}
	if cfg.Cleanse.ExtraProhibitedTerms[0] != "spamco" || cfg.Cleanse.ExtraProhibitedTerms[1] != "badword" {
		t.Errorf("ExtraProhibitedTerms = %v, want trimmed entries", cfg.Cleanse.ExtraProhibitedTerms)
	}
}

func TestConfig_String_MasksNothingSensitive(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := cfg.String()
	if !strings.Contains(s, "Server:") || !strings.Contains(s, "Logging:") {
		t.Errorf("String() = %q, missing expected sections", s)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9000, ":9000"},
		{"localhost", 80, "localhost:80"},
	}

	for _, tt := range tests {
		sc := ServerConfig{Host: tt.host, Port: tt.port}
		if got := sc.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}
