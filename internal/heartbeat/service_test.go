package heartbeat

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHealthyTracksProbeResults(t *testing.T) {
	var probeErr error
	s := NewService(time.Minute, func(ctx context.Context) error { return probeErr })

	if s.Healthy() {
		t.Error("healthy before any probe ran")
	}

	s.tick(context.Background())
	if !s.Healthy() {
		t.Error("not healthy after a successful probe")
	}

	probeErr = errors.New("connection refused")
	s.tick(context.Background())
	if s.Healthy() {
		t.Error("healthy after a failed probe")
	}

	probeErr = nil
	s.tick(context.Background())
	if !s.Healthy() {
		t.Error("not healthy after recovery")
	}
}

func TestTickBoundsProbeTime(t *testing.T) {
	s := NewService(time.Minute, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("probe context has no deadline")
		}
		return nil
	})
	s.tick(context.Background())
}

func TestNewServiceDefaultsInterval(t *testing.T) {
	s := NewService(0, func(ctx context.Context) error { return nil })
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
}
