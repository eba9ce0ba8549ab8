// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-care-sync/internal/logger"
)

// DefaultProbeInterval is used when the configured probe interval is not
// positive.
const DefaultProbeInterval = 10 * time.Second

// healthPath is the backend reachability endpoint probed with HEAD requests.
const healthPath = "/api/health"

// ProbeMonitor polls the backend health endpoint on a ticker and tracks
// reachability. It starts pessimistic (offline) so the first successful probe
// produces an online transition and triggers an initial drain.
type ProbeMonitor struct {
	client   *resty.Client
	interval time.Duration
	logger   *logger.Logger

	mu          sync.Mutex
	online      bool
	subscribers []func(online bool)
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewProbeMonitor constructs a monitor polling baseURL's health endpoint
// every interval. The monitor is idle until Start is called.
func NewProbeMonitor(baseURL string, interval time.Duration, log *logger.Logger) *ProbeMonitor {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(interval)

	return &ProbeMonitor{
		client:   client,
		interval: interval,
		logger:   log,
	}
}

func (m *ProbeMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *ProbeMonitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Start stops any previous polling loop, probes once immediately, then keeps
// probing every interval. The loop exits when ctx is cancelled or Stop is
// called.
func (m *ProbeMonitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.interval)
		defer t.Stop()

		m.observe(m.probe(loopCtx))
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				m.observe(m.probe(loopCtx))
			}
		}
	}()
}

// Stop cancels the polling loop and blocks until it has exited. Safe to call
// when the monitor is not running.
func (m *ProbeMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// probe issues one HEAD request against the health endpoint. Any HTTP
// response counts as reachable; only transport-level failures count as
// offline.
func (m *ProbeMonitor) probe(ctx context.Context) bool {
	resp, err := m.client.R().SetContext(ctx).Head(healthPath)
	if err != nil {
		return false
	}
	return resp.StatusCode() < http.StatusInternalServerError
}

// observe records a probe result and notifies subscribers on transitions.
func (m *ProbeMonitor) observe(online bool) {
	m.mu.Lock()
	changed := online != m.online
	m.online = online
	subscribers := m.subscribers
	m.mu.Unlock()

	if !changed {
		return
	}

	m.logger.Info().
		Str("func", "ProbeMonitor.observe").
		Bool("online", online).
		Msg("connectivity transition")

	for _, fn := range subscribers {
		fn(online)
	}
}
