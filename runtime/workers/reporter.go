package workers

import (
	"context"
	"log/slog"
	"time"
)

// OccupancyStats is the snapshot the reporter logs on every tick.
type OccupancyStats struct {
	Rooms int
	Users int
}

// StatsProvider returns the current occupancy snapshot.
type StatsProvider func() OccupancyStats

// ReporterWorker periodically logs room/user totals. Observability only:
// losing a tick has no effect on the relay.
type ReporterWorker struct {
	log      *slog.Logger
	stats    StatsProvider
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, stats StatsProvider, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, stats: stats, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	startTime := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report(startTime)
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case <-ticker.C:
			w.report(startTime)
		}
	}
}

func (w *ReporterWorker) report(startTime time.Time) {
	s := w.stats()
	w.log.Info("Occupancy",
		"uptime", time.Since(startTime).Round(time.Second).String(),
		"rooms", s.Rooms,
		"users", s.Users)
}
