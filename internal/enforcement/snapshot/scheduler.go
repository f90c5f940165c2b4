package snapshot

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler triggers automation refreshes on a fixed interval. It stands in
// for an external cron: the engine itself stays fire-and-forget, so a tick
// that overlaps a manual refresh is harmless.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(engine *Engine, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{engine: engine, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, refreshing once per interval. Failures
// are logged, never surfaced to end users, and leave the previous snapshots
// live.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("snapshot scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("snapshot scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			for _, res := range s.engine.ScheduledRefresh(ctx) {
				if res.Err != nil {
					s.logger.Error("scheduled refresh period failed",
						"period", string(res.Period),
						"error", res.Err.Error(),
					)
				}
			}
		}
	}
}
