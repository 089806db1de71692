package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL           string        // Notes backend base URL
	HTTPTimeout          time.Duration // Per-request timeout for backend calls
	GoogleClientID       string        // Google Identity Services client ID
	GoogleSignInMode     string        // Credential bridge strategy: "prompt" or "button"
	CallbackAddr         string        // Loopback address for the sign-in widget page
	ProviderReadyTimeout time.Duration // Bound on waiting for the identity library
	OTPResendInterval    time.Duration // Minimum interval between passcode resends per email
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		APIBaseURL:           getEnv("NOTES_API_URL", "http://localhost:3000"),
		HTTPTimeout:          10 * time.Second,
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleSignInMode:     getEnv("GOOGLE_SIGNIN_MODE", "prompt"),
		CallbackAddr:         getEnv("CALLBACK_ADDR", "127.0.0.1:8917"),
		ProviderReadyTimeout: 10 * time.Second,
		OTPResendInterval:    30 * time.Second,
	}

	// Parse HTTP_TIMEOUT if provided
	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT format: %w", err)
		}
		config.HTTPTimeout = duration
	}

	// Parse PROVIDER_READY_TIMEOUT if provided
	if timeoutStr := os.Getenv("PROVIDER_READY_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_READY_TIMEOUT format: %w", err)
		}
		config.ProviderReadyTimeout = duration
	}

	// Parse OTP_RESEND_INTERVAL if provided
	if intervalStr := os.Getenv("OTP_RESEND_INTERVAL"); intervalStr != "" {
		duration, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid OTP_RESEND_INTERVAL format: %w", err)
		}
		config.OTPResendInterval = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("NOTES_API_URL cannot be empty")
	}

	if c.GoogleSignInMode != "prompt" && c.GoogleSignInMode != "button" {
		return fmt.Errorf("GOOGLE_SIGNIN_MODE must be \"prompt\" or \"button\", got %q", c.GoogleSignInMode)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if c.ProviderReadyTimeout <= 0 {
		return fmt.Errorf("PROVIDER_READY_TIMEOUT must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
