// Package scheduler runs the periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"gearguard-backend/internal/logger"
	"gearguard-backend/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultReminderSpec runs the overdue reminder job every day at 07:00
const DefaultReminderSpec = "0 7 * * *"

const defaultJobTimeout = 5 * time.Minute

// Scheduler owns the cron runner and the jobs registered on it
type Scheduler struct {
	cron     *cron.Cron
	reminder service.ReminderServiceInterface
	spec     string
	timeout  time.Duration
}

// New validates spec and registers the overdue reminder job on it
func New(spec string, reminder service.ReminderServiceInterface) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultReminderSpec
	}

	cronLogger := cron.PrintfLogger(logrus.StandardLogger())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		reminder: reminder,
		spec:     spec,
		timeout:  defaultJobTimeout,
	}

	if _, err := s.cron.AddFunc(spec, s.runReminder); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.New().WithFields(map[string]interface{}{
		"job":  service.ReminderJobName,
		"spec": s.spec,
		"next": s.Next().Format(time.RFC3339),
	}).Info("scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// Next returns the next activation time of the reminder job
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().UTC())
}

// RunNow executes the reminder job once outside the schedule
func (s *Scheduler) RunNow(ctx context.Context) (*service.ReminderRunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.reminder.Run(ctx)
}

func (s *Scheduler) runReminder() {
	if _, err := s.RunNow(context.Background()); err != nil {
		logger.New().WithError(err).WithField("job", service.ReminderJobName).Error("scheduled job failed")
	}
}
