package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/taller/internal/logging"
)

// Sweeper is a job store that has to drop expired records itself.
// Redis expires keys on its own and does not implement it.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

const defaultSweepInterval = 10 * time.Minute

// StartHistorySweeper calls s.Sweep right away and then every interval.
// It blocks until ctx is done.
func StartHistorySweeper(ctx context.Context, s Sweeper, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ctx = logging.With(ctx, "component", "history_sweeper")
	slog.InfoContext(ctx, "sweeper running", "interval", interval)
	defer slog.InfoContext(ctx, "sweeper stopped")

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		sweepOnce(ctx, s)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func sweepOnce(ctx context.Context, s Sweeper) {
	began := time.Now()
	n, err := s.Sweep(ctx)
	switch {
	case err != nil:
		slog.ErrorContext(ctx, "sweep failed", "error", err)
	case n > 0:
		slog.InfoContext(ctx, "expired jobs removed", "removed", n, "took", time.Since(began))
	}
}
