// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-care-sync engine. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as device credentials and
	// the integrity hash key.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the durable store backends.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network settings for the remote-authority transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds drain scheduling and conflict resolution settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Status holds settings for the read-only status HTTP facade.
	Status Status `envPrefix:"STATUS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DeviceID identifies this collection device to the backend.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// AccessKey is the device credential used to obtain a bearer token.
	// Must be kept confidential.
	// Env: APP_ACCESS_KEY
	AccessKey string `env:"ACCESS_KEY"`

	// HashKey is the HMAC key used for request integrity checking on
	// outbound sends. Optional; when empty no hash is attached.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running agent.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for the durable store backends.
type Storage struct {
	// DB holds the primary database connection settings.
	DB DB `envPrefix:"DB_"`

	// FallbackCapacity bounds the degraded in-memory store used when the
	// primary backend is unavailable. The fallback keeps only the last
	// FallbackCapacity items.
	// Env: STORAGE_FALLBACK_CAPACITY
	FallbackCapacity int `env:"FALLBACK_CAPACITY"`
}

// DB holds connection settings for the primary durable store.
type DB struct {
	// DSN selects and configures the backend: a "postgres://" URI opens a
	// PostgreSQL store (gateway deployments), any other value is treated
	// as an SQLite file path (on-device deployments).
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter holds network settings for the remote-authority transport and the
// connectivity probe.
type Adapter struct {
	// BaseURL is the backend API base URL (e.g. "https://api.example.org").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every outbound call to the remote authority.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ProbeInterval is how often the connectivity monitor polls the
	// backend health endpoint.
	// Env: ADAPTER_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Sync holds drain scheduling and conflict resolution settings.
type Sync struct {
	// Strategy selects the conflict resolution strategy:
	// client_wins (default), server_wins, merge, or manual.
	// Env: SYNC_STRATEGY
	Strategy string `env:"STRATEGY"`

	// MaxRetryAttempts is the number of transient failures an item may
	// accumulate before it is quarantined.
	// Env: SYNC_MAX_RETRY_ATTEMPTS
	MaxRetryAttempts int `env:"MAX_RETRY_ATTEMPTS"`

	// FullDrainInterval is the period of the full-drain timer.
	// Env: SYNC_FULL_DRAIN_INTERVAL
	FullDrainInterval time.Duration `env:"FULL_DRAIN_INTERVAL"`

	// QuickDrainInterval is the period of the quick-drain timer.
	// Env: SYNC_QUICK_DRAIN_INTERVAL
	QuickDrainInterval time.Duration `env:"QUICK_DRAIN_INTERVAL"`

	// QuickDrainAgeThreshold restricts quick drains to items younger than
	// this threshold.
	// Env: SYNC_QUICK_DRAIN_AGE_THRESHOLD
	QuickDrainAgeThreshold time.Duration `env:"QUICK_DRAIN_AGE_THRESHOLD"`

	// QuickDrainBatchSize caps how many items a quick drain may attempt.
	// Env: SYNC_QUICK_DRAIN_BATCH_SIZE
	QuickDrainBatchSize int `env:"QUICK_DRAIN_BATCH_SIZE"`

	// InterItemDelay is the courtesy pause between consecutive sends
	// within one drain.
	// Env: SYNC_INTER_ITEM_DELAY
	InterItemDelay time.Duration `env:"INTER_ITEM_DELAY"`
}

// Status holds settings for the read-only status HTTP facade consumed by the
// (external) UI layer.
type Status struct {
	// HTTPAddress is the TCP address the status facade listens on,
	// in "host:port" format (e.g. "127.0.0.1:8090").
	// Env: STATUS_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// GetStructuredConfig loads, merges, and validates the engine configuration
// from all available sources in the following priority order (earlier sources
// win for conflicting non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source fails
// to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
