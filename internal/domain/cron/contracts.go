package cron

import (
	"context"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
)

// Service runs due tasks under a per-company lock.
type Service interface {
	// RunDue runs every enabled task that is due. It returns ErrLocked when
	// another run for the company is in progress.
	RunDue(ctx context.Context, companyID string, now time.Time) (*Result, error)
	// RunTask runs a single task regardless of its schedule.
	RunTask(ctx context.Context, companyID, key string, now time.Time) (*Result, error)
	UpdateRun(ctx context.Context, companyID, runID string, update *RunUpdate) (*TaskRun, error)
	ListTasks(ctx context.Context, companyID string) ([]*TaskRun, error)
	ListRunLogs(ctx context.Context, query *LogQuery) (paging.Page[*RunLog], error)
	PurgeRunLogs(ctx context.Context, companyID string, olderThan time.Time) (int64, error)
	// InstallPluginTasks creates task definitions and company runs for a plugin.
	InstallPluginTasks(ctx context.Context, companyID, pluginDir string, runs []*TaskRun) error
	// UninstallPluginTasks removes the company's runs of a plugin.
	UninstallPluginTasks(ctx context.Context, companyID, pluginDir string) error
}

// Repository persists tasks, runs and run logs.
type Repository interface {
	// EnsureTask returns the task with the same key, creating it when absent.
	EnsureTask(ctx context.Context, task *Task) (*Task, error)
	CreateRun(ctx context.Context, run *TaskRun) error
	UpdateRun(ctx context.Context, run *TaskRun) error
	GetRun(ctx context.Context, companyID, runID string) (*TaskRun, error)
	GetRunByKey(ctx context.Context, companyID, key string) (*TaskRun, error)
	// ListRuns returns the company's runs with their task loaded.
	ListRuns(ctx context.Context, companyID string) ([]*TaskRun, error)
	// DeletePluginRuns removes a company's runs of a plugin and any task
	// definition left without runs.
	DeletePluginRuns(ctx context.Context, companyID, pluginDir string) error

	CreateLog(ctx context.Context, log *RunLog) error
	UpdateLog(ctx context.Context, log *RunLog) error
	ListLogs(ctx context.Context, query *LogQuery) ([]*RunLog, int64, error)
	DeleteLogsBefore(ctx context.Context, companyID string, before time.Time) (int64, error)
}

// Locker guards a named resource across processes.
type Locker interface {
	// Acquire takes the lock for owner. It returns false when someone else
	// holds an unexpired lock.
	Acquire(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	// Release frees the lock if owner still holds it.
	Release(ctx context.Context, name, owner string) error
}

// PluginState tells which plugin directories are enabled for a company.
type PluginState interface {
	EnabledDirs(ctx context.Context, companyID string) (map[string]bool, error)
}

// Handler executes a task and returns its output.
type Handler func(ctx context.Context, companyID string, now time.Time) (string, error)

// Observer is notified about task outcomes and lock contention.
type Observer interface {
	TaskRun(key, status string)
	LockContention()
}
