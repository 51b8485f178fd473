package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.SQLiteDBPath != "data/tally.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
	if cfg.AMQPQueue != "transaction-export" {
		t.Errorf("AMQPQueue = %q", cfg.AMQPQueue)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.ExportEnabled() {
		t.Error("export enabled without a spreadsheet ID")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %v, want 2m", cfg.CacheTTL)
	}
	if !cfg.ExportEnabled() {
		t.Error("export not enabled with a spreadsheet ID")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:         "8081",
		SQLiteDBPath: "data/tally.db",
		JWTSecret:    "s3cret",
		CacheSize:    256,
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"missing db path", func(c *Config) { c.SQLiteDBPath = " " }},
		{"non-numeric port", func(c *Config) { c.Port = "http" }},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateWorker(t *testing.T) {
	cfg := Config{SQLiteDBPath: "data/tally.db", AMQPURL: "amqp://localhost"}
	if err := cfg.ValidateWorker(); err != nil {
		t.Fatalf("valid worker config rejected: %v", err)
	}

	cfg.AMQPURL = ""
	if err := cfg.ValidateWorker(); err == nil {
		t.Error("missing AMQP URL accepted")
	}
}
