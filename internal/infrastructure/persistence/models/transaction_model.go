package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/shopspring/decimal"
)

// TransactionModel is the GORM database model for payments
type TransactionModel struct {
	ID           string                        `gorm:"primaryKey;type:varchar(36)"`
	CompanyID    string                        `gorm:"not null;type:varchar(36);index"`
	ClientID     string                        `gorm:"not null;type:varchar(36);index"`
	AccountID    *string                       `gorm:"type:varchar(36)"`
	Type         string                        `gorm:"not null;type:varchar(8)"`
	Amount       decimal.Decimal               `gorm:"type:decimal(20,4);not null"`
	Currency     string                        `gorm:"not null;type:varchar(3)"`
	Status       string                        `gorm:"not null;type:varchar(16);index"`
	Reference    string                        `gorm:"type:varchar(128);index"`
	DateAdded    time.Time                     `gorm:"not null;index"`
	Applications []TransactionApplicationModel `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionApplicationModel is the GORM database model for amounts applied to invoices
type TransactionApplicationModel struct {
	TransactionID string          `gorm:"primaryKey;type:varchar(36)"`
	InvoiceID     string          `gorm:"primaryKey;type:varchar(36);index"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DateApplied   time.Time       `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (TransactionApplicationModel) TableName() string {
	return "transaction_applications"
}

// ToDomain converts GORM model to domain entity
func (m *TransactionModel) ToDomain() *transactions.Transaction {
	txn := &transactions.Transaction{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		ClientID:  m.ClientID,
		AccountID: m.AccountID,
		Type:      m.Type,
		Amount:    m.Amount,
		Currency:  m.Currency,
		Status:    m.Status,
		Reference: m.Reference,
		DateAdded: m.DateAdded,
		Applied:   make([]*transactions.Application, 0, len(m.Applications)),
	}
	for i := range m.Applications {
		txn.Applied = append(txn.Applied, m.Applications[i].ToDomain())
	}
	return txn
}

// FromDomain converts domain entity to GORM model. Applications are stored separately.
func (m *TransactionModel) FromDomain(t *transactions.Transaction) {
	m.ID = t.ID
	m.CompanyID = t.CompanyID
	m.ClientID = t.ClientID
	m.AccountID = t.AccountID
	m.Type = t.Type
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Status = t.Status
	m.Reference = t.Reference
	m.DateAdded = t.DateAdded
}

// ToDomain converts GORM model to domain entity
func (m *TransactionApplicationModel) ToDomain() *transactions.Application {
	return &transactions.Application{
		TransactionID: m.TransactionID,
		InvoiceID:     m.InvoiceID,
		Amount:        m.Amount,
		DateApplied:   m.DateApplied,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TransactionApplicationModel) FromDomain(a *transactions.Application) {
	m.TransactionID = a.TransactionID
	m.InvoiceID = a.InvoiceID
	m.Amount = a.Amount
	m.DateApplied = a.DateApplied
}
