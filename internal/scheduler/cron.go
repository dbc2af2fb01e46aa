package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "holidaycal/internal/log"
)

// refreshTimeout bounds a single scheduled refresh.
const refreshTimeout = 2 * time.Minute

// Start registers RefreshAll on spec (standard 5-field cron, evaluated in
// loc) and runs the scheduler until ctx is done. The returned channel closes
// once the scheduler has stopped and any running job has finished.
func Start(ctx context.Context, spec string, loc *time.Location, r *Refresher) (<-chan struct{}, error) {
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(spec, func() {
		jobCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()

		if err := r.RefreshAll(jobCtx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid refresh schedule %q: %w", spec, err)
	}

	c.Start()
	appLog.Info("refresh scheduler started", "schedule", spec, "timezone", loc.String())

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		appLog.Info("refresh scheduler stopped")
		close(done)
	}()

	return done, nil
}
