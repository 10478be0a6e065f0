package session

import (
	"context"
	"time"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
)

// Sweeper runs CleanupExpiredSessions periodically.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	events   events.Sink
	log      *logger.Logger
}

func NewSweeper(r *Registry, interval time.Duration, sink events.Sink, log *logger.Logger) *Sweeper {
	return &Sweeper{
		registry: r,
		interval: interval,
		events:   sink,
		log:      log.WithComponent("session-sweeper"),
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Session sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	pruned := s.registry.CleanupExpiredSessions(ctx)
	online := s.registry.CountOnline(ctx)

	s.log.Info("Session sweep finished", "pruned", pruned, "online", online, "duration", time.Since(start))

	if err := s.events.LogEvent(events.SessionsCleaned, map[string]interface{}{
		"pruned": pruned,
		"online": online,
	}); err != nil {
		s.log.Warn("Failed to log sweep event", "error", err)
	}
	return pruned
}
