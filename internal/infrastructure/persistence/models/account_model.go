package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
)

// AccountModel is the GORM database model for payment accounts
type AccountModel struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	ClientID         string    `gorm:"not null;type:varchar(36);index"`
	Type             string    `gorm:"not null;type:varchar(8)"`
	FirstName        string    `gorm:"not null;type:varchar(64)"`
	LastName         string    `gorm:"not null;type:varchar(64)"`
	Address1         string    `gorm:"type:varchar(255)"`
	City             string    `gorm:"type:varchar(128)"`
	State            string    `gorm:"type:varchar(64)"`
	Zip              string    `gorm:"type:varchar(16)"`
	Country          string    `gorm:"type:varchar(2)"`
	LastFour         string    `gorm:"not null;type:varchar(4)"`
	CardType         string    `gorm:"type:varchar(16)"`
	Expiration       string    `gorm:"type:varchar(6);index"`
	AccountType      string    `gorm:"type:varchar(16)"`
	EncryptedNumber  []byte    `gorm:"not null"`
	EncryptedRouting []byte    `gorm:"column:encrypted_routing"`
	Status           string    `gorm:"not null;type:varchar(16);index"`
	DateAdded        time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts GORM model to domain entity
func (m *AccountModel) ToDomain() *accounts.Account {
	return &accounts.Account{
		ID:               m.ID,
		ClientID:         m.ClientID,
		Type:             m.Type,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Address1:         m.Address1,
		City:             m.City,
		State:            m.State,
		Zip:              m.Zip,
		Country:          m.Country,
		LastFour:         m.LastFour,
		CardType:         m.CardType,
		Expiration:       m.Expiration,
		AccountType:      m.AccountType,
		EncryptedNumber:  m.EncryptedNumber,
		EncryptedRouting: m.EncryptedRouting,
		Status:           m.Status,
		DateAdded:        m.DateAdded,
	}
}

// FromDomain converts domain entity to GORM model
func (m *AccountModel) FromDomain(a *accounts.Account) {
	m.ID = a.ID
	m.ClientID = a.ClientID
	m.Type = a.Type
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.Address1 = a.Address1
	m.City = a.City
	m.State = a.State
	m.Zip = a.Zip
	m.Country = a.Country
	m.LastFour = a.LastFour
	m.CardType = a.CardType
	m.Expiration = a.Expiration
	m.AccountType = a.AccountType
	m.EncryptedNumber = a.EncryptedNumber
	m.EncryptedRouting = a.EncryptedRouting
	m.Status = a.Status
	m.DateAdded = a.DateAdded
}
