// Package config loads client configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Required environment keys. Absence of any of them makes the client
// unusable, so Load reports every missing one by name, never the present
// ones.
const (
	EnvStoreURL     = "STORE_URL"
	EnvStoreAnonKey = "STORE_ANON_KEY"
	EnvExtractFnURL = "EXTRACT_FN_URL"
)

type Config struct {
	StoreURL     string
	StoreAnonKey string
	ExtractFnURL string

	StoreTimeout   time.Duration
	ExtractTimeout time.Duration
}

// MissingKeysError lists exactly the required keys that are absent.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

// Load reads configuration from the environment. All missing required keys
// are collected into a single MissingKeysError.
func Load() (*Config, error) {
	cfg := &Config{
		StoreURL:       os.Getenv(EnvStoreURL),
		StoreAnonKey:   os.Getenv(EnvStoreAnonKey),
		ExtractFnURL:   os.Getenv(EnvExtractFnURL),
		StoreTimeout:   getEnvAsDuration("STORE_TIMEOUT", 30*time.Second),
		ExtractTimeout: getEnvAsDuration("EXTRACT_TIMEOUT", 90*time.Second),
	}

	var missing []string
	for _, kv := range []struct{ key, val string }{
		{EnvStoreURL, cfg.StoreURL},
		{EnvStoreAnonKey, cfg.StoreAnonKey},
		{EnvExtractFnURL, cfg.ExtractFnURL},
	} {
		if strings.TrimSpace(kv.val) == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingKeysError{Keys: missing}
	}
	return cfg, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Fprintf(os.Stderr, "warning: ignoring invalid duration for %s\n", key)
	}
	return defaultValue
}
