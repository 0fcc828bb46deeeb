package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the settlement engine.
type Config struct {
	Port            int
	LogLevel        string
	KafkaBrokers    []string
	KafkaTopic      string
	OutboxDir       string
	OutboxInterval  time.Duration
	MatchTimeout    time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	brokers := splitList(getStr("KAFKA_BROKERS", "localhost:9092"))
	if len(brokers) == 0 {
		return nil, fmt.Errorf("invalid KAFKA_BROKERS: must list at least one broker")
	}

	topic := getStr("KAFKA_TOPIC", "transactions")
	if topic == "" {
		return nil, fmt.Errorf("invalid KAFKA_TOPIC: must be non-empty")
	}

	outboxDir := getStr("OUTBOX_DIR", "data/outbox")
	if outboxDir == "" {
		return nil, fmt.Errorf("invalid OUTBOX_DIR: must be non-empty")
	}

	outboxInterval, err := getDuration("OUTBOX_INTERVAL", 1*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_INTERVAL: %w", err)
	}

	matchTimeout, err := getDuration("MATCH_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		KafkaBrokers:    brokers,
		KafkaTopic:      topic,
		OutboxDir:       outboxDir,
		OutboxInterval:  outboxInterval,
		MatchTimeout:    matchTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

// splitList parses a comma-separated list, dropping empty elements.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
