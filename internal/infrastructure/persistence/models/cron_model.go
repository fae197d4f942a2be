package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
)

// CronTaskModel is the GORM database model for task definitions
type CronTaskModel struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Key         string `gorm:"not null;type:varchar(64);uniqueIndex"`
	PluginDir   string `gorm:"type:varchar(64);index"`
	Name        string `gorm:"not null;type:varchar(128)"`
	Description string `gorm:"type:text"`
	Type        string `gorm:"not null;type:varchar(16)"`
}

// TableName specifies the table name for GORM
func (CronTaskModel) TableName() string {
	return "cron_tasks"
}

// CronTaskRunModel is the GORM database model for per-company task schedules
type CronTaskRunModel struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)"`
	TaskID    string        `gorm:"not null;type:varchar(36);uniqueIndex:idx_cron_runs_task_company"`
	CompanyID string        `gorm:"not null;type:varchar(36);uniqueIndex:idx_cron_runs_task_company"`
	Interval  int           `gorm:"column:run_interval;not null;default:0"`
	Time      string        `gorm:"column:run_time;type:varchar(5)"`
	Schedule  string        `gorm:"type:varchar(128)"`
	Enabled   bool          `gorm:"not null"`
	LastRunAt *time.Time    `gorm:"column:last_run_at"`
	Task      CronTaskModel `gorm:"foreignKey:TaskID"`
}

// TableName specifies the table name for GORM
func (CronTaskRunModel) TableName() string {
	return "cron_task_runs"
}

// CronRunLogModel is the GORM database model for task run logs
type CronRunLogModel struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	TaskRunID string     `gorm:"not null;type:varchar(36);index"`
	CompanyID string     `gorm:"not null;type:varchar(36);index"`
	Key       string     `gorm:"column:task_key;not null;type:varchar(64)"`
	Group     string     `gorm:"column:run_group;not null;type:varchar(64)"`
	StartedAt time.Time  `gorm:"not null;index"`
	EndedAt   *time.Time `gorm:"column:ended_at"`
	Output    string     `gorm:"type:text"`
	Status    string     `gorm:"not null;type:varchar(16)"`
}

// TableName specifies the table name for GORM
func (CronRunLogModel) TableName() string {
	return "cron_run_logs"
}

// CronLockModel is the GORM database model for named locks
type CronLockModel struct {
	Name      string    `gorm:"primaryKey;type:varchar(128)"`
	Owner     string    `gorm:"not null;type:varchar(64)"`
	ExpiresAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (CronLockModel) TableName() string {
	return "cron_locks"
}

// ToDomain converts GORM model to domain entity
func (m *CronTaskModel) ToDomain() *cron.Task {
	return &cron.Task{
		ID:          m.ID,
		Key:         m.Key,
		PluginDir:   m.PluginDir,
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
	}
}

// FromDomain converts domain entity to GORM model
func (m *CronTaskModel) FromDomain(t *cron.Task) {
	m.ID = t.ID
	m.Key = t.Key
	m.PluginDir = t.PluginDir
	m.Name = t.Name
	m.Description = t.Description
	m.Type = t.Type
}

// ToDomain converts GORM model to domain entity. The task is included when loaded.
func (m *CronTaskRunModel) ToDomain() *cron.TaskRun {
	run := &cron.TaskRun{
		ID:        m.ID,
		TaskID:    m.TaskID,
		CompanyID: m.CompanyID,
		Interval:  m.Interval,
		Time:      m.Time,
		Schedule:  m.Schedule,
		Enabled:   m.Enabled,
		LastRunAt: m.LastRunAt,
	}
	if m.Task.ID != "" {
		run.Task = m.Task.ToDomain()
	}
	return run
}

// FromDomain converts domain entity to GORM model
func (m *CronTaskRunModel) FromDomain(r *cron.TaskRun) {
	m.ID = r.ID
	m.TaskID = r.TaskID
	m.CompanyID = r.CompanyID
	m.Interval = r.Interval
	m.Time = r.Time
	m.Schedule = r.Schedule
	m.Enabled = r.Enabled
	m.LastRunAt = r.LastRunAt
}

// ToDomain converts GORM model to domain entity
func (m *CronRunLogModel) ToDomain() *cron.RunLog {
	return &cron.RunLog{
		ID:        m.ID,
		TaskRunID: m.TaskRunID,
		CompanyID: m.CompanyID,
		Key:       m.Key,
		Group:     m.Group,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Output:    m.Output,
		Status:    m.Status,
	}
}

// FromDomain converts domain entity to GORM model
func (m *CronRunLogModel) FromDomain(l *cron.RunLog) {
	m.ID = l.ID
	m.TaskRunID = l.TaskRunID
	m.CompanyID = l.CompanyID
	m.Key = l.Key
	m.Group = l.Group
	m.StartedAt = l.StartedAt
	m.EndedAt = l.EndedAt
	m.Output = l.Output
	m.Status = l.Status
}
