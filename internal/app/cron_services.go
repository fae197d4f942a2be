package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/google/uuid"
)

// LockName is the lock guarding cron runs of a company
func LockName(companyID string) string {
	return "cron:" + companyID
}

// cronService implements the cron.Service interface
type cronService struct {
	repo     cron.Repository
	locker   cron.Locker
	plugins  cron.PluginState
	registry *cron.Registry
	settings settings.Service
	observer cron.Observer
	lockTTL  time.Duration
	logger   logger.Logger
}

// NewCronService creates a new cron.Service. observer may be nil.
func NewCronService(
	repo cron.Repository,
	locker cron.Locker,
	pluginState cron.PluginState,
	registry *cron.Registry,
	settingService settings.Service,
	observer cron.Observer,
	lockTTL time.Duration,
	logger logger.Logger,
) (cron.Service, error) {
	if lockTTL <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &cronService{
		repo:     repo,
		locker:   locker,
		plugins:  pluginState,
		registry: registry,
		settings: settingService,
		observer: observer,
		lockTTL:  lockTTL,
		logger:   logger,
	}, nil
}

// RunDue runs every enabled task that is due. Tasks run one after another
// while the company lock is held; a failing task does not stop the others.
func (s *cronService) RunDue(ctx context.Context, companyID string, now time.Time) (*cron.Result, error) {
	var result *cron.Result
	err := s.withLock(ctx, companyID, func(ctx context.Context) error {
		if err := s.ensureSystemRuns(ctx, companyID); err != nil {
			return err
		}

		runs, err := s.repo.ListRuns(ctx, companyID)
		if err != nil {
			return err
		}
		enabledDirs, err := s.plugins.EnabledDirs(ctx, companyID)
		if err != nil {
			return err
		}
		local, err := s.localTime(ctx, companyID, now)
		if err != nil {
			return err
		}

		result = &cron.Result{CompanyID: companyID, StartedAt: now.UTC()}
		for _, run := range runs {
			if !run.Enabled || run.Task == nil {
				continue
			}
			if !run.Task.IsSystem() && !enabledDirs[run.Task.PluginDir] {
				continue
			}

			due, err := run.IsDue(local)
			if err != nil {
				s.logger.Warn("Skipping task ", run.Task.Key, " of company ", companyID, ": ", err)
				result.Tasks = append(result.Tasks, cron.TaskResult{Key: run.Task.Key, Status: cron.StatusError, Error: err.Error()})
				continue
			}
			if !due {
				continue
			}

			taskResult, err := s.execute(ctx, run, local)
			if err != nil {
				return err
			}
			result.Tasks = append(result.Tasks, taskResult)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cron run for company ", companyID, " ran ", len(result.Tasks), " task(s), ", result.Failed(), " failed")
	return result, nil
}

func (s *cronService) RunTask(ctx context.Context, companyID, key string, now time.Time) (*cron.Result, error) {
	var result *cron.Result
	err := s.withLock(ctx, companyID, func(ctx context.Context) error {
		if err := s.ensureSystemRuns(ctx, companyID); err != nil {
			return err
		}

		run, err := s.repo.GetRunByKey(ctx, companyID, key)
		if err != nil {
			return err
		}
		if !run.Task.IsSystem() {
			enabledDirs, err := s.plugins.EnabledDirs(ctx, companyID)
			if err != nil {
				return err
			}
			if !enabledDirs[run.Task.PluginDir] {
				return fmt.Errorf("task %s: %w", key, cron.ErrDisabled)
			}
		}

		local, err := s.localTime(ctx, companyID, now)
		if err != nil {
			return err
		}

		taskResult, err := s.execute(ctx, run, local)
		if err != nil {
			return err
		}
		result = &cron.Result{CompanyID: companyID, StartedAt: now.UTC(), Tasks: []cron.TaskResult{taskResult}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *cronService) UpdateRun(ctx context.Context, companyID, runID string, update *cron.RunUpdate) (*cron.TaskRun, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	run, err := s.repo.GetRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	update.ApplyTo(run)
	if err := run.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *cronService) ListTasks(ctx context.Context, companyID string) ([]*cron.TaskRun, error) {
	if err := s.ensureSystemRuns(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListRuns(ctx, companyID)
}

func (s *cronService) ListRunLogs(ctx context.Context, query *cron.LogQuery) (paging.Page[*cron.RunLog], error) {
	items, total, err := s.repo.ListLogs(ctx, query)
	if err != nil {
		return paging.Page[*cron.RunLog]{}, err
	}
	return paging.NewPage(query.Page, items, total), nil
}

func (s *cronService) PurgeRunLogs(ctx context.Context, companyID string, olderThan time.Time) (int64, error) {
	return s.repo.DeleteLogsBefore(ctx, companyID, olderThan.UTC())
}

// InstallPluginTasks registers the task definitions and creates the company's
// runs. Runs that already exist are left as they are, so upgrades only add
// new tasks.
func (s *cronService) InstallPluginTasks(ctx context.Context, companyID, pluginDir string, runs []*cron.TaskRun) error {
	for _, run := range runs {
		if run.Task == nil {
			return fmt.Errorf("task run of plugin %s has no task", pluginDir)
		}

		definition := *run.Task
		definition.PluginDir = pluginDir
		task, err := s.repo.EnsureTask(ctx, &definition)
		if err != nil {
			return err
		}
		if task.PluginDir != pluginDir {
			return fmt.Errorf("task key %s is already used by %s", task.Key, task.Group())
		}

		_, err = s.repo.GetRunByKey(ctx, companyID, task.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, cron.ErrNotFound) {
			return err
		}

		run.ID = uuid.NewString()
		run.TaskID = task.ID
		run.CompanyID = companyID
		run.Task = task
		if err := s.repo.CreateRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

func (s *cronService) UninstallPluginTasks(ctx context.Context, companyID, pluginDir string) error {
	return s.repo.DeletePluginRuns(ctx, companyID, pluginDir)
}

// withLock runs fn while holding the company lock. The lock is released with
// a context that survives cancellation of ctx.
func (s *cronService) withLock(ctx context.Context, companyID string, fn func(ctx context.Context) error) error {
	name := LockName(companyID)
	owner := uuid.NewString()

	acquired, err := s.locker.Acquire(ctx, name, owner, s.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire cron lock: %w", err)
	}
	if !acquired {
		if s.observer != nil {
			s.observer.LockContention()
		}
		return fmt.Errorf("company %s: %w", companyID, cron.ErrLocked)
	}

	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), name, owner); err != nil {
			s.logger.Error("Failed to release cron lock ", name, ": ", err)
		}
	}()

	return fn(ctx)
}

// ensureSystemRuns creates the company's runs of built-in tasks on first use
func (s *cronService) ensureSystemRuns(ctx context.Context, companyID string) error {
	for _, system := range cron.SystemTasks() {
		_, err := s.repo.GetRunByKey(ctx, companyID, system.Task.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, cron.ErrNotFound) {
			return err
		}

		definition := system.Task
		task, err := s.repo.EnsureTask(ctx, &definition)
		if err != nil {
			return err
		}

		run := &cron.TaskRun{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			CompanyID: companyID,
			Interval:  system.Interval,
			Time:      system.Time,
			Enabled:   true,
			Task:      task,
		}
		if err := s.repo.CreateRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one task and records its run log. Handler failures end up in
// the log and the result; only storage errors are returned.
func (s *cronService) execute(ctx context.Context, run *cron.TaskRun, now time.Time) (cron.TaskResult, error) {
	task := run.Task
	log := &cron.RunLog{
		ID:        uuid.NewString(),
		TaskRunID: run.ID,
		CompanyID: run.CompanyID,
		Key:       task.Key,
		Group:     task.Group(),
		StartedAt: now.UTC(),
		Status:    cron.StatusRunning,
	}
	if err := s.repo.CreateLog(ctx, log); err != nil {
		return cron.TaskResult{}, err
	}

	output, runErr := s.invoke(ctx, task.Key, run.CompanyID, now)

	ended := time.Now().UTC()
	if ended.Before(log.StartedAt) {
		ended = log.StartedAt
	}
	log.EndedAt = &ended
	log.Output = output
	log.Status = cron.StatusSuccess
	result := cron.TaskResult{Key: task.Key, Status: cron.StatusSuccess, Output: output}
	if runErr != nil {
		log.Status = cron.StatusError
		if log.Output == "" {
			log.Output = runErr.Error()
		}
		result.Status = cron.StatusError
		result.Error = runErr.Error()
		s.logger.Warn("Cron task ", task.Key, " of company ", run.CompanyID, " failed: ", runErr)
	}
	if err := s.repo.UpdateLog(ctx, log); err != nil {
		return cron.TaskResult{}, err
	}

	lastRun := now.UTC()
	run.LastRunAt = &lastRun
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		return cron.TaskResult{}, err
	}

	if s.observer != nil {
		s.observer.TaskRun(task.Key, result.Status)
	}
	return result, nil
}

func (s *cronService) invoke(ctx context.Context, key, companyID string, now time.Time) (output string, err error) {
	handler, ok := s.registry.Lookup(key)
	if !ok {
		return "", cron.ErrNoHandler
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", key, r)
		}
	}()
	return handler(ctx, companyID, now)
}

// localTime moves now into the company time zone
func (s *cronService) localTime(ctx context.Context, companyID string, now time.Time) (time.Time, error) {
	loc, err := s.settings.Location(ctx, companyID)
	if err != nil {
		return time.Time{}, err
	}
	return now.In(loc), nil
}
