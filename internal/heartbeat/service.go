package heartbeat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultInterval is the default probe interval.
	DefaultInterval = 5 * time.Minute

	probeTimeout = 10 * time.Second
)

// Probe checks the answer service, returning nil when it is reachable.
type Probe func(ctx context.Context) error

// Service periodically probes the answer service and logs availability
// transitions, so gateway logs show when the backend comes and goes.
type Service struct {
	interval time.Duration
	probe    Probe

	mu      sync.Mutex
	checked bool
	healthy bool
}

// NewService creates a heartbeat probing at the given interval.
func NewService(interval time.Duration, probe Probe) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{interval: interval, probe: probe}
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	slog.Info("Heartbeat started", "interval", s.interval)
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Heartbeat stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Healthy reports the result of the latest probe. False until the first
// probe completes.
func (s *Service) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked && s.healthy
}

func (s *Service) tick(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	err := s.probe(probeCtx)
	healthy := err == nil

	s.mu.Lock()
	wasChecked, wasHealthy := s.checked, s.healthy
	s.checked, s.healthy = true, healthy
	s.mu.Unlock()

	switch {
	case !wasChecked && healthy:
		slog.Info("Answer service reachable")
	case !wasChecked && !healthy:
		slog.Warn("Answer service unreachable", "err", err)
	case healthy && !wasHealthy:
		slog.Info("Answer service recovered")
	case !healthy && wasHealthy:
		slog.Warn("Answer service went away", "err", err)
	}
}
