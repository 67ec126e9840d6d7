// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRecalculationScheduler recalculates every angler's achievements on a fixed
// interval. The caller owns the returned scheduler and must shut it down.
func (s *AchievementService) StartRecalculationScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			started := time.Now()
			n, err := s.RecalculateAll(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("[Scheduler] recalculation run aborted")
				return
			}
			s.log.Info().
				Int("users", n).
				Dur("took", time.Since(started)).
				Msg("✅ [Scheduler] achievements recalculated")
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
