package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "KAFKA_BROKERS", "KAFKA_TOPIC", "OUTBOX_DIR",
		"OUTBOX_INTERVAL", "MATCH_TIMEOUT", "READ_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("KafkaBrokers = %v, want [localhost:9092]", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "transactions" {
		t.Errorf("KafkaTopic = %q, want %q", cfg.KafkaTopic, "transactions")
	}
	if cfg.OutboxDir != "data/outbox" {
		t.Errorf("OutboxDir = %q, want %q", cfg.OutboxDir, "data/outbox")
	}
	if cfg.OutboxInterval != 1*time.Second {
		t.Errorf("OutboxInterval = %v, want 1s", cfg.OutboxInterval)
	}
	if cfg.MatchTimeout != 5*time.Second {
		t.Errorf("MatchTimeout = %v, want 5s", cfg.MatchTimeout)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want 10s", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Errorf("IdleTimeout = %v, want 60s", cfg.IdleTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("KAFKA_TOPIC", "fills")
	t.Setenv("OUTBOX_DIR", "/tmp/outbox")
	t.Setenv("OUTBOX_INTERVAL", "500ms")
	t.Setenv("MATCH_TIMEOUT", "2s")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("WRITE_TIMEOUT", "5s")
	t.Setenv("IDLE_TIMEOUT", "30s")
	t.Setenv("SHUTDOWN_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "k1:9092" || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v, want [k1:9092 k2:9092]", cfg.KafkaBrokers)
	}
	if cfg.KafkaTopic != "fills" {
		t.Errorf("KafkaTopic = %q, want %q", cfg.KafkaTopic, "fills")
	}
	if cfg.OutboxDir != "/tmp/outbox" {
		t.Errorf("OutboxDir = %q, want %q", cfg.OutboxDir, "/tmp/outbox")
	}
	if cfg.OutboxInterval != 500*time.Millisecond {
		t.Errorf("OutboxInterval = %v, want 500ms", cfg.OutboxInterval)
	}
	if cfg.MatchTimeout != 2*time.Second {
		t.Errorf("MatchTimeout = %v, want 2s", cfg.MatchTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid port", "PORT", "not-a-number"},
		{"invalid log level", "LOG_LEVEL", "verbose"},
		{"empty brokers", "KAFKA_BROKERS", " , "},
		{"invalid outbox interval", "OUTBOX_INTERVAL", "fast"},
		{"invalid match timeout", "MATCH_TIMEOUT", "5"},
		{"invalid read timeout", "READ_TIMEOUT", "abc"},
		{"invalid shutdown timeout", "SHUTDOWN_TIMEOUT", "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}
