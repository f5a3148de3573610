package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BroadcastExpirer deactivates broadcasts older than a ttl.
type BroadcastExpirer interface {
	ExpireBroadcasts(ctx context.Context, ttl time.Duration) (int64, error)
}

// LimiterCleaner drops per-client rate limiters that have gone idle.
type LimiterCleaner interface {
	CleanupLimiters(idle time.Duration) int
}

// Scheduler runs the periodic maintenance jobs on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

// AddBroadcastExpiry schedules broadcast expiry on spec (standard cron or a descriptor like "@hourly").
func (s *Scheduler) AddBroadcastExpiry(spec string, expirer BroadcastExpirer, ttl time.Duration) error {
	_, err := s.cron.AddFunc(spec, func() { s.expireBroadcasts(expirer, ttl) })
	if err != nil {
		return fmt.Errorf("invalid broadcast schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) expireBroadcasts(expirer BroadcastExpirer, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := expirer.ExpireBroadcasts(ctx, ttl)
	if err != nil {
		s.logger.Error("broadcast expiry failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("broadcasts expired", zap.Int64("count", n))
	}
}

// AddLimiterCleanup drops rate limiters idle for longer than idle, every interval.
func (s *Scheduler) AddLimiterCleanup(interval time.Duration, cleaner LimiterCleaner, idle time.Duration) {
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		if removed := cleaner.CleanupLimiters(idle); removed > 0 {
			s.logger.Debug("rate limiters cleaned", zap.Int("removed", removed))
		}
	}))
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}
