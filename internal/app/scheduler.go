package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	robfig "github.com/robfig/cron/v3"
)

// Scheduler triggers cron runs of every company from inside the server process
type Scheduler struct {
	cron      *robfig.Cron
	service   cron.Service
	companies staff.Repository
	interval  time.Duration
	logger    logger.Logger
}

// NewScheduler creates a scheduler firing every interval
func NewScheduler(service cron.Service, companies staff.Repository, interval time.Duration, logger logger.Logger) (*Scheduler, error) {
	if interval < time.Minute {
		return nil, fmt.Errorf("scheduler interval must be at least one minute, got %s", interval)
	}

	s := &Scheduler{
		service:   service,
		companies: companies,
		interval:  interval,
		logger:    logger,
	}
	s.cron = robfig.New(robfig.WithChain(
		robfig.Recover(s),
		robfig.SkipIfStillRunning(s),
	))

	if _, err := s.cron.AddFunc("@every "+interval.String(), s.tick); err != nil {
		return nil, fmt.Errorf("failed to schedule cron runs: %w", err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler every ", s.interval.String())
	s.cron.Start()
}

// Stop waits for a running tick to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Cron scheduler did not stop in time")
	}
}

// RunAll runs due tasks of every company. A locked company is skipped.
func (s *Scheduler) RunAll(ctx context.Context, now time.Time) error {
	companyIDs, err := s.companies.CompanyIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, companyID := range companyIDs {
		if _, err := s.service.RunDue(ctx, companyID, now); err != nil {
			if errors.Is(err, cron.ErrLocked) {
				s.logger.Info("Cron run of company ", companyID, " skipped, another run holds the lock")
				continue
			}
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) tick() {
	if err := s.RunAll(context.Background(), time.Now()); err != nil {
		s.logger.Error("Scheduled cron run failed: ", err)
	}
}

// Info satisfies robfig's logger interface
func (s *Scheduler) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(append([]interface{}{msg, " "}, keysAndValues...)...)
}

// Error satisfies robfig's logger interface
func (s *Scheduler) Error(err error, msg string, keysAndValues ...interface{}) {
	s.logger.Error(append([]interface{}{msg, ": ", err, " "}, keysAndValues...)...)
}
