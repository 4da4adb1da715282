// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/larabeck/atelier/internal/app/store/pushsub"
	"github.com/larabeck/atelier/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Returning a non-nil
// error will abort startup and prevent the server from starting.
//
// The context will be cancelled if the process is asked to shut down while
// Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
// Push subscription cleanup is the only scheduled job; it is registered
// only when an interval is configured, otherwise cleanup stays manual
// via the push API.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	if appCfg.PushCleanupInterval > 0 {
		taskRunner.Register(tasks.PushSubCleanupJob(deps.PushSubs, logger, appCfg.PushCleanupInterval, pushsub.DefaultMaxIdle))
		logger.Info("scheduled push subscription cleanup",
			zap.Duration("interval", appCfg.PushCleanupInterval),
			zap.Duration("max_idle", pushsub.DefaultMaxIdle),
		)
	}

	taskRunner.Start()
}
