// Package config provides configuration for the helpdesk.
package config

import (
	"os"
	"strconv"
	"time"
)

const defaultGreeting = "<p>Hello! I am the WUT assistant. How can I help you today?</p><p>I can answer questions about <b>IT</b>, <b>HR</b> and <b>Accounting</b>.</p>"

// Config holds the helpdesk configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Answer service (the /api/chat backend the chat client talks to)
	AnswerServiceURL string

	// Timeouts
	HTTPTimeout time.Duration

	// Chat
	Greeting string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", "file:helpdesk.db?cache=shared&mode=rwc"),
		AnswerServiceURL: getEnv("ANSWER_SERVICE_URL", "http://localhost:8080"),
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_MS", 30000)) * time.Millisecond,
		Greeting:         getEnv("GREETING", defaultGreeting),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
