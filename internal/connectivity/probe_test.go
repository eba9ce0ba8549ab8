// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-sync/internal/logger"
)

// healthServer — управляемый health-эндпоинт для проб
type healthServer struct {
	mu        sync.Mutex
	reachable bool
}

func (h *healthServer) setReachable(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reachable = v
}

func (h *healthServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		reachable := h.reachable
		h.mu.Unlock()

		if !reachable {
			// имитируем недоступный бэкенд через зависание до отмены
			<-r.Context().Done()
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatal(msg)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestProbeMonitor_StartsOffline(t *testing.T) {
	m := NewProbeMonitor("http://127.0.0.1:0", time.Second, logger.NewLogger("test"))
	assert.False(t, m.Online(), "monitor must be pessimistic before the first probe")
}

func TestProbeMonitor_DetectsOnlineTransition(t *testing.T) {
	health := &healthServer{reachable: true}
	srv := httptest.NewServer(health.handler())
	defer srv.Close()

	m := NewProbeMonitor(srv.URL, 20*time.Millisecond, logger.NewLogger("test"))

	var (
		mu          sync.Mutex
		transitions []bool
	)
	m.Subscribe(func(online bool) {
		mu.Lock()
		transitions = append(transitions, online)
		mu.Unlock()
	})

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.Online, "expected monitor to come online")

	mu.Lock()
	require.NotEmpty(t, transitions)
	assert.True(t, transitions[0], "first transition must be offline→online")
	mu.Unlock()
}

func TestProbeMonitor_DetectsOfflineTransition(t *testing.T) {
	health := &healthServer{reachable: true}
	srv := httptest.NewServer(health.handler())
	defer srv.Close()

	m := NewProbeMonitor(srv.URL, 20*time.Millisecond, logger.NewLogger("test"))
	m.client.SetTimeout(50 * time.Millisecond)

	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, m.Online, "expected monitor to come online")

	health.setReachable(false)
	waitFor(t, func() bool { return !m.Online() }, "expected monitor to go offline")
}

func TestProbeMonitor_NotifiesTransitionsOnly(t *testing.T) {
	health := &healthServer{reachable: true}
	srv := httptest.NewServer(health.handler())
	defer srv.Close()

	m := NewProbeMonitor(srv.URL, 10*time.Millisecond, logger.NewLogger("test"))

	var (
		mu    sync.Mutex
		calls int
	)
	m.Subscribe(func(bool) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	m.Start(context.Background())
	waitFor(t, m.Online, "expected monitor to come online")

	// даём пройти нескольким успешным пробам подряд
	time.Sleep(100 * time.Millisecond)
	m.Stop()

	mu.Lock()
	assert.Equal(t, 1, calls, "repeated identical probes must not re-notify")
	mu.Unlock()
}

func TestProbeMonitor_StopIsIdempotent(t *testing.T) {
	m := NewProbeMonitor("http://127.0.0.1:0", time.Second, logger.NewLogger("test"))

	m.Stop() // не запущен — no-op
	m.Start(context.Background())
	m.Stop()
	m.Stop()
}
