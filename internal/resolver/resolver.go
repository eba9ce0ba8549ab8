// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package resolver decides what happens to a queued record after the remote
// authority reports diverged state for it.
//
// Four strategies are supported. client_wins (the default) force-resends the
// local payload through the override path until the backend acknowledges it.
// server_wins accepts the remote state and discards the local capture. merge
// attempts a shallow field-level union of the two payloads and pushes the
// result; payloads that cannot be merged safely fall back to manual. manual
// suspends the item until an external actor supplies a terminal decision.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// mergeWindow bounds how far apart the local and server timestamps may be for
// the merge strategy to consider the payloads two views of the same capture.
const mergeWindow = 60 * time.Second

// overrideAttempts caps the bounded-backoff retries of one override push.
const overrideAttempts = 3

// Outcome classifies the result of resolving one conflict.
type Outcome int

const (
	// OutcomeResolved means the conflict is settled and the local item can
	// be marked synced.
	OutcomeResolved Outcome = iota

	// OutcomeTransient means resolution could not complete due to a
	// retryable failure; the item stays queued and consumes a retry.
	OutcomeTransient

	// OutcomeQuarantine means the backend rejected the resolution
	// permanently; the item must be quarantined.
	OutcomeQuarantine

	// OutcomeSuspended means the item is parked as a pending conflict
	// awaiting an external decision.
	OutcomeSuspended
)

// Resolver applies the configured conflict strategy.
type Resolver struct {
	strategy  models.Strategy
	remote    adapter.RemoteAuthority
	conflicts *Conflicts
	logger    *logger.Logger

	now func() time.Time
}

// NewResolver constructs a resolver for the given strategy. An empty or
// invalid strategy falls back to client_wins.
func NewResolver(strategy models.Strategy, remote adapter.RemoteAuthority, conflicts *Conflicts, log *logger.Logger) *Resolver {
	if strategy.Validate() != nil {
		strategy = models.StrategyClientWins
	}
	return &Resolver{
		strategy:  strategy,
		remote:    remote,
		conflicts: conflicts,
		logger:    log,
		now:       time.Now,
	}
}

// Strategy returns the strategy the resolver applies.
func (r *Resolver) Strategy() models.Strategy {
	return r.strategy
}

// Resolve settles one conflict reported by the remote authority.
func (r *Resolver) Resolve(ctx context.Context, item models.SyncItem, conflict *adapter.ConflictError) (Outcome, error) {
	log := logger.FromContext(ctx)
	log.Info().
		Str("func", "Resolver.Resolve").
		Str("item_id", item.ID).
		Str("strategy", string(r.strategy)).
		Time("local_ts", item.Timestamp).
		Time("server_ts", conflict.ServerTimestamp).
		Msg("resolving conflict")

	switch r.strategy {
	case models.StrategyServerWins:
		// удалённое состояние принимается как есть, локальный снимок закрыт
		return OutcomeResolved, nil

	case models.StrategyMerge:
		return r.resolveMerge(ctx, item, conflict)

	case models.StrategyManual:
		r.suspend(item, conflict)
		return OutcomeSuspended, nil

	default: // client_wins
		return r.pushOutcome(r.Push(ctx, item))
	}
}

// resolveMerge unions the two payloads when they are mergeable and pushes the
// result through the override path; otherwise the item is suspended for a
// manual decision.
func (r *Resolver) resolveMerge(ctx context.Context, item models.SyncItem, conflict *adapter.ConflictError) (Outcome, error) {
	merged, ok := mergePayloads(item.Payload, conflict.ServerPayload, item.Timestamp, conflict.ServerTimestamp)
	if !ok {
		r.logger.Info().
			Str("func", "Resolver.resolveMerge").
			Str("item_id", item.ID).
			Msg("payloads not mergeable, falling back to manual resolution")
		r.suspend(item, conflict)
		return OutcomeSuspended, nil
	}

	item.Payload = merged
	return r.pushOutcome(r.Push(ctx, item))
}

// Push delivers item through the override path with bounded fibonacci
// backoff. Transient failures (including rejected tokens) are retried; a
// permanent rejection aborts immediately.
func (r *Resolver) Push(ctx context.Context, item models.SyncItem) error {
	backoff := retry.WithMaxRetries(overrideAttempts, retry.NewFibonacci(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.remote.ForceOverride(ctx, item)
		if errors.Is(err, adapter.ErrTransient) || errors.Is(err, adapter.ErrUnauthorized) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// pushOutcome maps a Push error onto the outcome taxonomy.
func (r *Resolver) pushOutcome(err error) (Outcome, error) {
	switch {
	case err == nil:
		return OutcomeResolved, nil
	case errors.Is(err, adapter.ErrPermanent):
		return OutcomeQuarantine, fmt.Errorf("override rejected: %w", err)
	default:
		return OutcomeTransient, fmt.Errorf("override not acknowledged: %w", err)
	}
}

func (r *Resolver) suspend(item models.SyncItem, conflict *adapter.ConflictError) {
	r.conflicts.Add(models.PendingConflict{
		ItemID:          item.ID,
		SessionID:       item.SessionID,
		DataType:        item.DataType,
		LocalTimestamp:  item.Timestamp,
		ServerTimestamp: conflict.ServerTimestamp,
		LocalPayload:    item.Payload.Clone(),
		ServerPayload:   conflict.ServerPayload.Clone(),
		DetectedAt:      r.now(),
	})
}

// mergePayloads reports whether local and server are two views of the same
// capture and, if so, returns their shallow union. Mergeable means both
// payloads are present, expose identical top-level key sets, and were
// captured within mergeWindow of each other. For common keys the payload
// with the later timestamp wins.
func mergePayloads(local, server models.Payload, localTS, serverTS time.Time) (models.Payload, bool) {
	if local == nil || server == nil {
		return nil, false
	}
	if !sameKeySets(local, server) {
		return nil, false
	}

	gap := localTS.Sub(serverTS)
	if gap < 0 {
		gap = -gap
	}
	if gap > mergeWindow {
		return nil, false
	}

	newer, older := local, server
	if serverTS.After(localTS) {
		newer, older = server, local
	}

	merged := newer.Clone()
	if err := mergo.Merge(&merged, older); err != nil {
		return nil, false
	}
	return merged, true
}

func sameKeySets(a, b models.Payload) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
