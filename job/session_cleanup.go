package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saatgomi1/secondsense/repository"
)

// CleanupExpiredSessions deletes sessions idle for longer than ttl
func CleanupExpiredSessions(ctx context.Context, repo repository.SessionRepositoryInterface, ttl time.Duration, now time.Time) (int64, error) {
	removed, err := repo.DeleteOlderThan(ctx, now.Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return removed, nil
}

// StartSessionCleanup schedules CleanupExpiredSessions and starts the scheduler.
// The caller stops the returned cron on shutdown.
func StartSessionCleanup(repo repository.SessionRepositoryInterface, schedule string, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		removed, err := CleanupExpiredSessions(context.Background(), repo, ttl, time.Now())
		if err != nil {
			log.Printf("❌ [Cron] Session cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("🧹 [Cron] Removed %d expired sessions", removed)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session cleanup schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Printf("⏰ Session cleanup scheduled (%s, ttl %s)", schedule, ttl)
	return c, nil
}
