// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-care-sync/models"
)

// Defaults applied by applyDefaults for fields left unset by every
// configuration source.
const (
	DefaultStrategy               = string(models.StrategyClientWins)
	DefaultMaxRetryAttempts       = 3
	DefaultFullDrainInterval      = 5 * time.Minute
	DefaultQuickDrainInterval     = 30 * time.Second
	DefaultQuickDrainAgeThreshold = 5 * time.Minute
	DefaultQuickDrainBatchSize    = 3
	DefaultInterItemDelay         = 150 * time.Millisecond
	DefaultRequestTimeout         = 15 * time.Second
	DefaultProbeInterval          = 10 * time.Second
	DefaultFallbackCapacity       = 100
)

// applyDefaults fills unset sync, adapter, and storage fields with the
// documented defaults. Required fields (DSN, base URL) are left alone and
// caught by validate.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Sync.Strategy == "" {
		cfg.Sync.Strategy = DefaultStrategy
	}
	if cfg.Sync.MaxRetryAttempts <= 0 {
		cfg.Sync.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if cfg.Sync.FullDrainInterval <= 0 {
		cfg.Sync.FullDrainInterval = DefaultFullDrainInterval
	}
	if cfg.Sync.QuickDrainInterval <= 0 {
		cfg.Sync.QuickDrainInterval = DefaultQuickDrainInterval
	}
	if cfg.Sync.QuickDrainAgeThreshold <= 0 {
		cfg.Sync.QuickDrainAgeThreshold = DefaultQuickDrainAgeThreshold
	}
	if cfg.Sync.QuickDrainBatchSize <= 0 {
		cfg.Sync.QuickDrainBatchSize = DefaultQuickDrainBatchSize
	}
	if cfg.Sync.InterItemDelay <= 0 {
		cfg.Sync.InterItemDelay = DefaultInterItemDelay
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Adapter.ProbeInterval <= 0 {
		cfg.Adapter.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Storage.FallbackCapacity <= 0 {
		cfg.Storage.FallbackCapacity = DefaultFallbackCapacity
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// engine invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive sentinel error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" {
		return ErrInvalidAdapterConfigs
	}

	if err := models.Strategy(cfg.Sync.Strategy).Validate(); err != nil {
		return ErrInvalidSyncConfigs
	}

	return nil
}
