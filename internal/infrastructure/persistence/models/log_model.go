package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
)

// LogModel is the GORM database model for audit log entries
type LogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	CompanyID string    `gorm:"not null;type:varchar(36);index:idx_logs_company_type"`
	Type      string    `gorm:"not null;type:varchar(32);index:idx_logs_company_type"`
	ClientID  *string   `gorm:"type:varchar(36);index"`
	StaffID   *string   `gorm:"type:varchar(36)"`
	Summary   string    `gorm:"not null;type:varchar(255)"`
	Detail    string    `gorm:"type:text"`
	Status    string    `gorm:"not null;type:varchar(16)"`
	IPAddress string    `gorm:"type:varchar(45)"`
	DateAdded time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (LogModel) TableName() string {
	return "logs"
}

// ToDomain converts GORM model to domain entity
func (m *LogModel) ToDomain() *logs.Entry {
	return &logs.Entry{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Type:      m.Type,
		ClientID:  m.ClientID,
		StaffID:   m.StaffID,
		Summary:   m.Summary,
		Detail:    m.Detail,
		Status:    m.Status,
		IPAddress: m.IPAddress,
		DateAdded: m.DateAdded,
	}
}

// FromDomain converts domain entity to GORM model
func (m *LogModel) FromDomain(e *logs.Entry) {
	m.ID = e.ID
	m.CompanyID = e.CompanyID
	m.Type = e.Type
	m.ClientID = e.ClientID
	m.StaffID = e.StaffID
	m.Summary = e.Summary
	m.Detail = e.Detail
	m.Status = e.Status
	m.IPAddress = e.IPAddress
	m.DateAdded = e.DateAdded
}
