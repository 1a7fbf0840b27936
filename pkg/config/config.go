// Package config centralizes environment-variable driven configuration
// for the EQC authority core: os.Getenv with sane defaults, no external
// config file format for ambient settings.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the gate/engine's runtime configuration.
type Config struct {
	// Port is the HTTP listen port for cmd/eqcgate's serve subcommand.
	Port string
	// LogLevel is a slog level name: DEBUG, INFO, WARN, ERROR.
	LogLevel string
	// PolicyPacks is the initial enabled-pack reference list, read from
	// EQC_POLICY_PACKS (spec §6): comma-separated, empty/unset means none.
	PolicyPacks []string
	// ScopeTTL is the default scope lifetime (spec §4.8 default 120s).
	ScopeTTL time.Duration
	// SessionTTL bounds how long an issued Session accepts nonces.
	SessionTTL time.Duration
	// DatabaseURL, if set, enables the optional Postgres audit sink.
	DatabaseURL string
	// RedisAddr, if set, enables the optional Redis-backed nonce store.
	RedisAddr string
	// PackManifestPath, if set, points at a YAML file listing WASM policy
	// packs to register at startup, keyed by reference and version.
	PackManifestPath string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:             getenvDefault("PORT", "8080"),
		LogLevel:         getenvDefault("LOG_LEVEL", "INFO"),
		PolicyPacks:      parsePolicyPacks(os.Getenv("EQC_POLICY_PACKS")),
		ScopeTTL:         getenvDuration("EQC_SCOPE_TTL", 120*time.Second),
		SessionTTL:       getenvDuration("EQC_SESSION_TTL", 60*time.Second),
		DatabaseURL:      os.Getenv("EQC_AUDIT_DATABASE_URL"),
		RedisAddr:        os.Getenv("EQC_REDIS_ADDR"),
		PackManifestPath: os.Getenv("EQC_PACK_MANIFEST_PATH"),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// parsePolicyPacks splits EQC_POLICY_PACKS on commas, trims whitespace,
// and drops empty entries — matching _parse_policy_packs_env in the
// original Python engine.
func parsePolicyPacks(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
