package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ARBITER_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ARBITER_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// HistoryLimit returns the maximum number of resolved decisions kept in
// history. Defaults to 1000 if not set; 0 keeps everything.
func HistoryLimit() int {
	raw := os.Getenv("HISTORY_LIMIT")
	if raw == "" {
		return 1000
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 1000
	}
	return limit
}

// DefaultThreshold returns the consensus threshold applied when neither
// the request nor a registered pattern sets one.
// Defaults to 0.7 if not set.
func DefaultThreshold() float64 {
	t, err := strconv.ParseFloat(os.Getenv("DEFAULT_THRESHOLD"), 64)
	if err != nil || t <= 0 || t > 1 {
		return 0.7
	}
	return t
}

// DefaultTimeoutMs returns the decision deadline in milliseconds applied
// when neither the request nor a registered pattern sets one.
// Defaults to 5000 if not set.
func DefaultTimeoutMs() int64 {
	ms, err := strconv.ParseInt(os.Getenv("DEFAULT_TIMEOUT_MS"), 10, 64)
	if err != nil || ms <= 0 {
		return 5000
	}
	return ms
}
