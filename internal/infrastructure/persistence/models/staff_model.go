package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
)

// StaffModel is the GORM database model for staff members
type StaffModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	CompanyID    string    `gorm:"not null;type:varchar(36);index"`
	Username     string    `gorm:"not null;type:varchar(64);uniqueIndex"`
	Email        string    `gorm:"not null;type:varchar(255)"`
	FirstName    string    `gorm:"not null;type:varchar(64)"`
	LastName     string    `gorm:"not null;type:varchar(64)"`
	PasswordHash string    `gorm:"not null;type:varchar(255)"`
	TOTPSecret   []byte    `gorm:"column:totp_secret"`
	TOTPEnabled  bool      `gorm:"column:totp_enabled;not null"`
	Status       string    `gorm:"not null;type:varchar(16)"`
	DateAdded    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (StaffModel) TableName() string {
	return "staff"
}

// ToDomain converts GORM model to domain entity
func (m *StaffModel) ToDomain() *staff.Staff {
	return &staff.Staff{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		TOTPSecret:   m.TOTPSecret,
		TOTPEnabled:  m.TOTPEnabled,
		Status:       m.Status,
		DateAdded:    m.DateAdded,
	}
}

// FromDomain converts domain entity to GORM model
func (m *StaffModel) FromDomain(s *staff.Staff) {
	m.ID = s.ID
	m.CompanyID = s.CompanyID
	m.Username = s.Username
	m.Email = s.Email
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.PasswordHash = s.PasswordHash
	m.TOTPSecret = s.TOTPSecret
	m.TOTPEnabled = s.TOTPEnabled
	m.Status = s.Status
	m.DateAdded = s.DateAdded
}
