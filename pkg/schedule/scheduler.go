package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Governor is the subset of the governor the scheduler drives.
type Governor interface {
	// Reevaluate re-runs threshold evaluation without a charge.
	Reevaluate()

	// DailyReset performs the exactly-once daily boundary reset.
	DailyReset()
}

// Config contains scheduler settings.
type Config struct {
	// ReevaluateEvery is the periodic threshold re-evaluation interval.
	// Default: 60 seconds.
	ReevaluateEvery time.Duration

	// DailyResetSchedule is the cron expression for the daily reset
	// boundary, evaluated in UTC. Default: "0 0 * * *" (00:00 UTC).
	DailyResetSchedule string
}

// Scheduler runs the governor's periodic re-evaluation and daily reset
// jobs on a UTC cron runner.
type Scheduler struct {
	governor Governor
	config   Config
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool

	// heartbeat is invoked after every re-evaluation tick; the metrics
	// subscriber uses it as a liveness signal. May be nil.
	heartbeat func(time.Time)
}

// NewScheduler creates a scheduler for the given governor.
func NewScheduler(governor Governor, config Config) *Scheduler {
	if config.ReevaluateEvery <= 0 {
		config.ReevaluateEvery = 60 * time.Second
	}
	if config.DailyResetSchedule == "" {
		config.DailyResetSchedule = "0 0 * * *"
	}

	return &Scheduler{
		governor: governor,
		config:   config,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		logger:   slog.Default().With("component", "schedule"),
	}
}

// OnHeartbeat registers a callback invoked after every re-evaluation
// tick. Must be called before Start.
func (s *Scheduler) OnHeartbeat(fn func(time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeat = fn
}

// Start registers both jobs and starts the cron runner. The scheduler
// stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.config.DailyResetSchedule); err != nil {
		return fmt.Errorf("invalid daily reset schedule %q: %w", s.config.DailyResetSchedule, err)
	}

	every := fmt.Sprintf("@every %s", s.config.ReevaluateEvery)
	if _, err := s.cron.AddFunc(every, s.reevaluate); err != nil {
		return fmt.Errorf("failed to schedule re-evaluation: %w", err)
	}
	if _, err := s.cron.AddFunc(s.config.DailyResetSchedule, s.dailyReset); err != nil {
		return fmt.Errorf("failed to schedule daily reset: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("budget scheduler started",
		"reevaluate_every", s.config.ReevaluateEvery,
		"daily_reset_schedule", s.config.DailyResetSchedule,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// reevaluate runs one periodic tick. The governor commits its state
// under its own lock; anything that fails downstream (a notifier
// subscriber, the heartbeat consumer) cannot undo the tick.
func (s *Scheduler) reevaluate() {
	s.governor.Reevaluate()

	s.mu.Lock()
	heartbeat := s.heartbeat
	s.mu.Unlock()

	if heartbeat != nil {
		heartbeat(time.Now().UTC())
	}
}

func (s *Scheduler) dailyReset() {
	s.logger.Info("daily reset boundary reached")
	s.governor.DailyReset()
}

// Stop stops the cron runner and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("budget scheduler stopped")
}

// NextDailyReset returns the next scheduled daily reset time in UTC.
func (s *Scheduler) NextDailyReset() (time.Time, error) {
	sched, err := cron.ParseStandard(s.config.DailyResetSchedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(time.Now().UTC()), nil
}
