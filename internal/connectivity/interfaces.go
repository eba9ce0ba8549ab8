// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package connectivity reports whether the remote authority is reachable and
// notifies subscribers when reachability changes.
package connectivity

//go:generate mockgen -source=interfaces.go -destination=../mock/connectivity_mock.go -package=mock

// Monitor exposes the engine's view of network reachability.
//
// Subscribers are notified on transitions only: a callback receives true when
// the backend becomes reachable after being unreachable, and false for the
// opposite transition. Callbacks run on the monitor's goroutine and must not
// block.
type Monitor interface {
	// Online reports the last observed reachability state.
	Online() bool

	// Subscribe registers a callback invoked on every reachability
	// transition. Subscriptions cannot be removed; they live as long as
	// the monitor.
	Subscribe(fn func(online bool))
}
