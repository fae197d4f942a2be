package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
)

// PluginModel is the GORM database model for installed plugins
type PluginModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	CompanyID     string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_plugins_company_dir"`
	Dir           string    `gorm:"not null;type:varchar(64);uniqueIndex:idx_plugins_company_dir"`
	Name          string    `gorm:"not null;type:varchar(128)"`
	Version       string    `gorm:"not null;type:varchar(32)"`
	Description   string    `gorm:"type:text"`
	Enabled       bool      `gorm:"not null"`
	DateInstalled time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (PluginModel) TableName() string {
	return "plugins"
}

// ToDomain converts GORM model to domain entity
func (m *PluginModel) ToDomain() *plugins.Plugin {
	return &plugins.Plugin{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Dir:           m.Dir,
		Name:          m.Name,
		Version:       m.Version,
		Description:   m.Description,
		Enabled:       m.Enabled,
		DateInstalled: m.DateInstalled,
	}
}

// FromDomain converts domain entity to GORM model
func (m *PluginModel) FromDomain(p *plugins.Plugin) {
	m.ID = p.ID
	m.CompanyID = p.CompanyID
	m.Dir = p.Dir
	m.Name = p.Name
	m.Version = p.Version
	m.Description = p.Description
	m.Enabled = p.Enabled
	m.DateInstalled = p.DateInstalled
}
