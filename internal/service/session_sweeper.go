package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeperConfig holds settings for the session sweeper.
type SessionSweeperConfig struct {
	Interval time.Duration
	TTL      time.Duration
}

// SessionSweeper periodically drops clarification sessions that have been
// idle for longer than the configured TTL.
type SessionSweeper struct {
	sessions WorkflowService
	cfg      SessionSweeperConfig
	now      func() time.Time
}

// NewSessionSweeper creates a new SessionSweeper.
func NewSessionSweeper(sessions WorkflowService, cfg SessionSweeperConfig) *SessionSweeper {
	return &SessionSweeper{sessions: sessions, cfg: cfg, now: time.Now}
}

// Start runs the sweep loop until ctx is canceled.
func (w *SessionSweeper) Start(ctx context.Context) {
	if w.cfg.Interval <= 0 || w.cfg.TTL <= 0 {
		zap.L().Info("session sweeper disabled")
		return
	}
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	zap.L().Info("session sweeper started",
		zap.Duration("interval", w.cfg.Interval), zap.Duration("ttl", w.cfg.TTL))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("session sweeper stopped")
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce removes sessions idle for longer than the TTL.
func (w *SessionSweeper) SweepOnce() int {
	removed := w.sessions.Sweep(w.now().Add(-w.cfg.TTL))
	if removed > 0 {
		zap.L().Info("idle workflow sessions removed", zap.Int("count", removed))
	}
	return removed
}
