package jobs

import (
	"context"
	"time"

	"law_office_app_go/config"
	"law_office_app_go/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// SessionCleanupSpec runs at the top of every hour
	SessionCleanupSpec = "0 * * * *"
	// TaskReminderSpec runs every day at 07:00
	TaskReminderSpec = "0 7 * * *"
)

// StartScheduler registers the background jobs and starts the cron runner.
// The caller stops the returned scheduler on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config, sessions *services.SessionManager, monitor *services.SecurityEventMonitor) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(SessionCleanupSpec, func() {
		CleanupExpiredSessions(context.Background(), sessions)
		if monitor != nil {
			monitor.Prune()
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(TaskReminderSpec, func() {
		SendTaskReminders(database, cfg, time.Now().UTC())
	}); err != nil {
		return nil, err
	}

	c.Start()
	zap.L().Info("[CRON] scheduler started", zap.Int("jobs", len(c.Entries())))
	return c, nil
}

// CleanupExpiredSessions purges expired sessions from the configured store
func CleanupExpiredSessions(ctx context.Context, sessions *services.SessionManager) {
	if sessions == nil {
		return
	}
	removed, err := sessions.Cleanup(ctx)
	if err != nil {
		zap.L().Error("[CRON] session cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		zap.L().Info("[CRON] expired sessions removed", zap.Int64("count", removed))
	}
}
