// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/larabeck/atelier/internal/app/store/pushsub"
)

// PushSubCleanupJobName identifies the push subscription sweep, for
// RunOnce triggers.
const PushSubCleanupJobName = "push-subscription-cleanup"

// PushSubCleanupJob creates a job that removes push subscriptions idle
// for longer than maxIdle. It is registered only when an interval is
// configured; by default the sweep runs on explicit admin request.
func PushSubCleanupJob(subs *pushsub.Store, logger *zap.Logger, interval, maxIdle time.Duration) Job {
	return Job{
		Name:     PushSubCleanupJobName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			removed, err := subs.DeleteInactive(ctx, maxIdle)
			if err != nil {
				return err
			}
			if removed > 0 {
				logger.Info("cleaned up inactive push subscriptions",
					zap.Int64("deleted", removed),
					zap.Duration("max_idle", maxIdle))
			}
			return nil
		},
	}
}
