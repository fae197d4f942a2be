package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
)

// SettingModel is the GORM database model for company settings
type SettingModel struct {
	CompanyID string    `gorm:"primaryKey;type:varchar(36)"`
	Key       string    `gorm:"primaryKey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts GORM model to domain entity
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		CompanyID: m.CompanyID,
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *SettingModel) FromDomain(s *settings.Setting) {
	m.CompanyID = s.CompanyID
	m.Key = s.Key
	m.Value = s.Value
	m.UpdatedAt = s.UpdatedAt
}
