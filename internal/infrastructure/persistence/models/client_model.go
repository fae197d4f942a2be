package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
)

// ClientModel is the GORM database model for clients
type ClientModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	CompanyID    string    `gorm:"not null;type:varchar(36);uniqueIndex:idx_clients_company_username"`
	Username     string    `gorm:"not null;type:varchar(64);uniqueIndex:idx_clients_company_username"`
	Email        string    `gorm:"not null;type:varchar(255)"`
	FirstName    string    `gorm:"not null;type:varchar(64)"`
	LastName     string    `gorm:"not null;type:varchar(64)"`
	Company      string    `gorm:"type:varchar(128)"`
	Status       string    `gorm:"not null;type:varchar(16);index"`
	Notes        string    `gorm:"type:text"`
	PasswordHash string    `gorm:"not null;type:varchar(255)"`
	DateAdded    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts GORM model to domain entity
func (m *ClientModel) ToDomain() *clients.Client {
	return &clients.Client{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Company:      m.Company,
		Status:       m.Status,
		Notes:        m.Notes,
		PasswordHash: m.PasswordHash,
		DateAdded:    m.DateAdded,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ClientModel) FromDomain(c *clients.Client) {
	m.ID = c.ID
	m.CompanyID = c.CompanyID
	m.Username = c.Username
	m.Email = c.Email
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Company = c.Company
	m.Status = c.Status
	m.Notes = c.Notes
	m.PasswordHash = c.PasswordHash
	m.DateAdded = c.DateAdded
}
