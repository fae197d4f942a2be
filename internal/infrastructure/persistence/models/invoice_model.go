package models

import (
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the GORM database model for invoices
type InvoiceModel struct {
	ID         string                 `gorm:"primaryKey;type:varchar(36)"`
	CompanyID  string                 `gorm:"not null;type:varchar(36);index"`
	ClientID   string                 `gorm:"not null;type:varchar(36);index"`
	IDValue    int64                  `gorm:"not null;default:0"`
	IDCode     string                 `gorm:"type:varchar(80);index"`
	Status     string                 `gorm:"not null;type:varchar(16);index"`
	Currency   string                 `gorm:"not null;type:varchar(3)"`
	TaxRate    decimal.Decimal        `gorm:"type:decimal(7,4);not null"`
	Subtotal   decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	Tax        decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	Total      decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	Paid       decimal.Decimal        `gorm:"type:decimal(20,4);not null"`
	DateBilled time.Time              `gorm:"not null;index"`
	DateDue    time.Time              `gorm:"not null;index"`
	DateClosed *time.Time             `gorm:"index"`
	Lines      []InvoiceLineModel     `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Deliveries []InvoiceDeliveryModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceSequenceModel holds the last invoice number drawn by a company
type InvoiceSequenceModel struct {
	CompanyID string `gorm:"primaryKey;type:varchar(36)"`
	LastValue int64  `gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// InvoiceLineModel is the GORM database model for invoice lines
type InvoiceLineModel struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	InvoiceID   string          `gorm:"not null;type:varchar(36);index"`
	Description string          `gorm:"not null;type:varchar(512)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UnitAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Taxable     bool            `gorm:"not null"`
	Order       int             `gorm:"column:line_order;not null"`
}

// TableName specifies the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// InvoiceDeliveryModel is the GORM database model for invoice deliveries
type InvoiceDeliveryModel struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	InvoiceID string     `gorm:"not null;type:varchar(36);index"`
	Method    string     `gorm:"not null;type:varchar(16)"`
	Status    string     `gorm:"not null;type:varchar(16);index"`
	DateAdded time.Time  `gorm:"not null"`
	DateSent  *time.Time
}

// TableName specifies the table name for GORM
func (InvoiceDeliveryModel) TableName() string {
	return "invoice_deliveries"
}

// ToDomain converts GORM model to domain entity
func (m *InvoiceModel) ToDomain() *invoices.Invoice {
	inv := &invoices.Invoice{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		ClientID:   m.ClientID,
		IDValue:    m.IDValue,
		IDCode:     m.IDCode,
		Status:     m.Status,
		Currency:   m.Currency,
		TaxRate:    m.TaxRate,
		Subtotal:   m.Subtotal,
		Tax:        m.Tax,
		Total:      m.Total,
		Paid:       m.Paid,
		DateBilled: m.DateBilled,
		DateDue:    m.DateDue,
		DateClosed: m.DateClosed,
		Lines:      make([]*invoices.Line, 0, len(m.Lines)),
		Deliveries: make([]*invoices.Delivery, 0, len(m.Deliveries)),
	}
	for i := range m.Lines {
		inv.Lines = append(inv.Lines, m.Lines[i].ToDomain())
	}
	for i := range m.Deliveries {
		inv.Deliveries = append(inv.Deliveries, m.Deliveries[i].ToDomain())
	}
	return inv
}

// FromDomain converts domain entity to GORM model
func (m *InvoiceModel) FromDomain(inv *invoices.Invoice) {
	m.ID = inv.ID
	m.CompanyID = inv.CompanyID
	m.ClientID = inv.ClientID
	m.IDValue = inv.IDValue
	m.IDCode = inv.IDCode
	m.Status = inv.Status
	m.Currency = inv.Currency
	m.TaxRate = inv.TaxRate
	m.Subtotal = inv.Subtotal
	m.Tax = inv.Tax
	m.Total = inv.Total
	m.Paid = inv.Paid
	m.DateBilled = inv.DateBilled
	m.DateDue = inv.DateDue
	m.DateClosed = inv.DateClosed
	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i, line := range inv.Lines {
		m.Lines[i].FromDomain(inv.ID, line)
	}
	m.Deliveries = make([]InvoiceDeliveryModel, len(inv.Deliveries))
	for i, d := range inv.Deliveries {
		m.Deliveries[i].FromDomain(d)
	}
}

// ToDomain converts GORM model to domain entity
func (m *InvoiceLineModel) ToDomain() *invoices.Line {
	return &invoices.Line{
		ID:          m.ID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitAmount:  m.UnitAmount,
		Taxable:     m.Taxable,
		Order:       m.Order,
	}
}

// FromDomain converts domain entity to GORM model
func (m *InvoiceLineModel) FromDomain(invoiceID string, l *invoices.Line) {
	m.ID = l.ID
	m.InvoiceID = invoiceID
	m.Description = l.Description
	m.Quantity = l.Quantity
	m.UnitAmount = l.UnitAmount
	m.Taxable = l.Taxable
	m.Order = l.Order
}

// ToDomain converts GORM model to domain entity
func (m *InvoiceDeliveryModel) ToDomain() *invoices.Delivery {
	return &invoices.Delivery{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		Method:    m.Method,
		Status:    m.Status,
		DateAdded: m.DateAdded,
		DateSent:  m.DateSent,
	}
}

// FromDomain converts domain entity to GORM model
func (m *InvoiceDeliveryModel) FromDomain(d *invoices.Delivery) {
	m.ID = d.ID
	m.InvoiceID = d.InvoiceID
	m.Method = d.Method
	m.Status = d.Status
	m.DateAdded = d.DateAdded
	m.DateSent = d.DateSent
}
