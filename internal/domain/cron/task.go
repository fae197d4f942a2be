// Package cron describes automation tasks, their per-company schedules and
// the log of every run.
package cron

import (
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
	robfig "github.com/robfig/cron/v3"
)

// Task types
const (
	TypeInterval = "interval"
	TypeTime     = "time"
	TypeSchedule = "schedule"
)

// Run log statuses
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// System task keys
const (
	TaskCleanupLogs             = "cleanup_logs"
	TaskDeliverInvoices         = "deliver_invoices"
	TaskApplyCredits            = "apply_credits"
	TaskCardExpirationReminders = "card_expiration_reminders"
)

// GroupSystem is the run log group of built-in tasks. Plugin tasks use the plugin directory.
const GroupSystem = "system"

// Errors returned by the cron service
var (
	ErrLocked      = errors.New("another cron run holds the lock")
	ErrNotFound    = errors.New("task not found")
	ErrRunNotFound = errors.New("task run not found")
	ErrNoHandler   = errors.New("no handler is registered for this task")
	ErrDisabled    = errors.New("task belongs to a disabled plugin")
)

// Task is an automation task definition shared by every company.
type Task struct {
	ID          string `validate:"required,uuid4"`
	Key         string `validate:"required,max=64"`
	PluginDir   string `validate:"max=64"`
	Name        string `validate:"required,max=128"`
	Description string
	Type        string `validate:"required,oneof=interval time schedule"`
}

// IsSystem reports whether the task is built in.
func (t *Task) IsSystem() bool {
	return t.PluginDir == ""
}

// Group is the run log group of the task.
func (t *Task) Group() string {
	if t.IsSystem() {
		return GroupSystem
	}
	return t.PluginDir
}

// TaskRun is the schedule of a task for one company.
type TaskRun struct {
	ID        string `validate:"required,uuid4"`
	TaskID    string `validate:"required,uuid4"`
	CompanyID string `validate:"required,uuid4"`
	Interval  int    `validate:"min=0"`
	Time      string `validate:"omitempty,clock"`
	Schedule  string `validate:"omitempty,cronspec"`
	Enabled   bool
	LastRunAt *time.Time
	Task      *Task
}

// Validate checks that the field matching the task type is set.
func (r *TaskRun) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(r); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if r.Task == nil {
		return errs.Err()
	}
	switch r.Task.Type {
	case TypeInterval:
		if r.Interval < 1 {
			errs.Add("Interval", "must be at least 1")
		}
	case TypeTime:
		if r.Time == "" {
			errs.Add("Time", "is required")
		}
	case TypeSchedule:
		if r.Schedule == "" {
			errs.Add("Schedule", "is required")
		}
	}
	return errs.Err()
}

// IsDue reports whether the run should execute at now. now must already be
// in the company time zone, which is what "time" tasks are measured in.
func (r *TaskRun) IsDue(now time.Time) (bool, error) {
	if r.Task == nil {
		return false, fmt.Errorf("task run %s has no task loaded", r.ID)
	}

	switch r.Task.Type {
	case TypeInterval:
		if r.LastRunAt == nil {
			return true, nil
		}
		next := r.LastRunAt.Add(time.Duration(r.Interval) * time.Minute)
		return !now.Before(next), nil

	case TypeTime:
		clock, err := time.Parse("15:04", r.Time)
		if err != nil {
			return false, fmt.Errorf("invalid run time %q: %w", r.Time, err)
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if now.Before(today) {
			return false, nil
		}
		return r.LastRunAt == nil || r.LastRunAt.Before(today), nil

	case TypeSchedule:
		if r.LastRunAt == nil {
			return true, nil
		}
		schedule, err := robfig.ParseStandard(r.Schedule)
		if err != nil {
			return false, fmt.Errorf("invalid schedule %q: %w", r.Schedule, err)
		}
		next := schedule.Next(r.LastRunAt.In(now.Location()))
		return !now.Before(next), nil
	}

	return false, fmt.Errorf("unknown task type %q", r.Task.Type)
}

// RunUpdate changes the schedule of a task run. Nil fields are left alone.
type RunUpdate struct {
	Enabled  *bool
	Interval *int    `validate:"omitempty,min=1,max=525600"`
	Time     *string `validate:"omitempty,clock"`
	Schedule *string `validate:"omitempty,cronspec"`
}

// Validate for validating RunUpdate struct
func (u *RunUpdate) Validate() error {
	return validation.Struct(u)
}

// ApplyTo copies the fields that make sense for the run's task type.
func (u *RunUpdate) ApplyTo(run *TaskRun) {
	if u.Enabled != nil {
		run.Enabled = *u.Enabled
	}
	if run.Task == nil {
		return
	}
	switch run.Task.Type {
	case TypeInterval:
		if u.Interval != nil {
			run.Interval = *u.Interval
		}
	case TypeTime:
		if u.Time != nil {
			run.Time = *u.Time
		}
	case TypeSchedule:
		if u.Schedule != nil {
			run.Schedule = *u.Schedule
		}
	}
}

// RunLog records one execution of a task.
type RunLog struct {
	ID        string
	TaskRunID string
	CompanyID string
	Key       string
	Group     string
	StartedAt time.Time
	EndedAt   *time.Time
	Output    string
	Status    string
}

// LogQuery filters run log listings.
type LogQuery struct {
	CompanyID string `validate:"required"`
	Group     string
	Page      paging.Request
}

// TaskResult summarises one task executed by RunDue or RunTask.
type TaskResult struct {
	Key    string
	Status string
	Output string
	Error  string
}

// Result lists what a cron invocation ran.
type Result struct {
	CompanyID string
	StartedAt time.Time
	Tasks     []TaskResult
}

// Failed counts the tasks that ended in error.
func (r *Result) Failed() int {
	failed := 0
	for _, t := range r.Tasks {
		if t.Status == StatusError {
			failed++
		}
	}
	return failed
}

// SystemTask pairs a built-in task with its default schedule.
type SystemTask struct {
	Task     Task
	Interval int
	Time     string
}

// SystemTasks returns the built-in tasks seeded for every company.
func SystemTasks() []SystemTask {
	return []SystemTask{
		{
			Task:     Task{Key: TaskCleanupLogs, Name: "Clean up logs", Description: "Deletes log entries older than the log_days setting.", Type: TypeInterval},
			Interval: 1440,
		},
		{
			Task:     Task{Key: TaskDeliverInvoices, Name: "Deliver invoices", Description: "Sends queued invoice deliveries.", Type: TypeInterval},
			Interval: 5,
		},
		{
			Task:     Task{Key: TaskApplyCredits, Name: "Apply credits", Description: "Applies unapplied payments to open invoices.", Type: TypeInterval},
			Interval: 60,
		},
		{
			Task:     Task{Key: TaskCardExpirationReminders, Name: "Card expiration reminders", Description: "Reminds clients whose cards expire this month.", Type: TypeTime},
			Time:     "00:00",
		},
	}
}
