package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
)

// ThemeModel is the GORM database model for themes. Colors are stored as JSON.
type ThemeModel struct {
	ID        string            `gorm:"primaryKey;type:varchar(36)"`
	CompanyID *string           `gorm:"type:varchar(36);index"`
	Type      string            `gorm:"not null;type:varchar(16);index"`
	Name      string            `gorm:"not null;type:varchar(128)"`
	Colors    map[string]string `gorm:"type:text;serializer:json"`
	LogoURL   string            `gorm:"type:varchar(512)"`
	DateAdded time.Time         `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ThemeModel) TableName() string {
	return "themes"
}

// ToDomain converts GORM model to domain entity
func (m *ThemeModel) ToDomain() *themes.Theme {
	colors := make(map[string]string, len(m.Colors))
	for k, v := range m.Colors {
		colors[k] = v
	}
	return &themes.Theme{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Type:      m.Type,
		Name:      m.Name,
		Colors:    colors,
		LogoURL:   m.LogoURL,
		DateAdded: m.DateAdded,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ThemeModel) FromDomain(t *themes.Theme) {
	m.ID = t.ID
	m.CompanyID = t.CompanyID
	m.Type = t.Type
	m.Name = t.Name
	m.Colors = t.Colors
	m.LogoURL = t.LogoURL
	m.DateAdded = t.DateAdded
}
