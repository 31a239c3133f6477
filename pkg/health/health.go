// Package health exposes liveness and readiness probes backed by periodic
// background checks. A check must fail failureThreshold times in a row before
// its probe starts reporting unhealthy.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const failureThreshold = 3

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type probe int

const (
	probeLiveness probe = iota
	probeReadiness
)

type check struct {
	name    string
	probe   probe
	timeout time.Duration
	fn      CheckFunc

	mu       sync.Mutex
	fails    int
	lastErr  error
	degraded bool
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err == nil {
		c.fails = 0
		c.degraded = false
		return
	}
	c.fails++
	if c.fails >= failureThreshold {
		c.degraded = true
	}
}

func (c *check) failure() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.degraded {
		return "", false
	}
	if c.lastErr != nil {
		return c.lastErr.Error(), true
	}
	return "check is unhealthy", true
}

// Service runs registered checks on a shared ticker and serves probe
// endpoints. Register all checks before calling Start.
type Service struct {
	ready  atomic.Bool
	checks []*check
	cancel context.CancelFunc
}

// New creates a Service in the not-ready state.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check that gates the /livez probe.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.checks = append(s.checks, &check{name: name, probe: probeLiveness, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that gates the /readyz probe.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.checks = append(s.checks, &check{name: name, probe: probeReadiness, timeout: timeout, fn: fn})
}

// Start runs every registered check once, then again each interval, until the
// context is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		s.runAll(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runAll(ctx)
			}
		}
	}()
}

func (s *Service) runAll(ctx context.Context) {
	for _, c := range s.checks {
		c.run(ctx)
	}
}

// Stop cancels the background check loop. Safe to call more than once.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Graceful shutdown sets it to
// false before draining.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness check
// passes.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	return len(s.failures(probeReadiness)) == 0
}

func (s *Service) failures(p probe) map[string]string {
	out := make(map[string]string)
	for _, c := range s.checks {
		if c.probe != p {
			continue
		}
		if msg, bad := c.failure(); bad {
			out[c.name] = msg
		}
	}
	return out
}

// LiveEndpoint serves the /livez probe.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, s.failures(probeLiveness))
}

// ReadyEndpoint serves the /readyz probe.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := s.failures(probeReadiness)
	if !s.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeProbe(w, failures)
}

func writeProbe(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	body := map[string]any{"status": "ok"}
	code := http.StatusOK
	if len(failures) > 0 {
		body["status"] = "unhealthy"
		body["checks"] = failures
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
