package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// invoiceService implements the invoices.Service interface
type invoiceService struct {
	repo       invoices.Repository
	clientRepo clients.Repository
	settings   settings.Service
	transactor uow.Transactor
	logger     logger.Logger
	now        func() time.Time
}

// NewInvoiceService creates a new invoices.Service
func NewInvoiceService(
	repo invoices.Repository,
	clientRepo clients.Repository,
	settingService settings.Service,
	transactor uow.Transactor,
	logger logger.Logger,
) (invoices.Service, error) {
	return &invoiceService{
		repo:       repo,
		clientRepo: clientRepo,
		settings:   settingService,
		transactor: transactor,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *invoiceService) Create(ctx context.Context, companyID string, input *invoices.Input) (*invoices.Invoice, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.GetByID(ctx, companyID, input.ClientID); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		value, err := s.settings.Get(ctx, companyID, settings.KeyDefaultCurrency)
		if err != nil {
			return nil, err
		}
		currency = value
	}

	taxRate, err := s.taxRate(ctx, companyID, input.TaxRate)
	if err != nil {
		return nil, err
	}

	invoice := &invoices.Invoice{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		ClientID:   input.ClientID,
		Status:     input.Status,
		Currency:   currency,
		TaxRate:    taxRate,
		Paid:       decimal.Zero,
		DateBilled: input.DateBilled.UTC(),
		DateDue:    input.DateDue.UTC(),
		Lines:      buildLines(input.Lines),
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if invoice.Status == invoices.StatusActive {
			if err := s.assignNumber(ctx, invoice); err != nil {
				return err
			}
		}
		invoice.Recalculate(s.now())
		return s.repo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// Update replaces the lines of a draft or open invoice. Moving a draft to
// active assigns its number; an active invoice cannot go back to draft.
func (s *invoiceService) Update(ctx context.Context, companyID, invoiceID string, input *invoices.Input) (*invoices.Invoice, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var invoice *invoices.Invoice
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.repo.GetByID(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.Editable() {
			return fmt.Errorf("invoice %s: %w", invoice.ID, invoices.ErrNotEditable)
		}
		if invoice.Status == invoices.StatusActive && input.Status == invoices.StatusDraft {
			return fmt.Errorf("active invoice %s cannot return to draft: %w", invoice.ID, invoices.ErrNotEditable)
		}
		if input.ClientID != invoice.ClientID {
			if _, err := s.clientRepo.GetByID(ctx, companyID, input.ClientID); err != nil {
				return err
			}
			if invoice.Paid.IsPositive() {
				return fmt.Errorf("invoice %s has payments and cannot change client: %w", invoice.ID, invoices.ErrNotEditable)
			}
			invoice.ClientID = input.ClientID
		}

		if input.Currency != "" && input.Currency != invoice.Currency {
			if invoice.Paid.IsPositive() {
				return fmt.Errorf("invoice %s has payments and cannot change currency: %w", invoice.ID, invoices.ErrNotEditable)
			}
			invoice.Currency = input.Currency
		}
		if input.TaxRate != nil {
			invoice.TaxRate = *input.TaxRate
		}
		invoice.DateBilled = input.DateBilled.UTC()
		invoice.DateDue = input.DateDue.UTC()
		invoice.Lines = buildLines(input.Lines)

		if invoice.Status == invoices.StatusDraft && input.Status == invoices.StatusActive {
			invoice.Status = invoices.StatusActive
			if err := s.assignNumber(ctx, invoice); err != nil {
				return err
			}
		}

		invoice.Recalculate(s.now())
		return s.repo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *invoiceService) Void(ctx context.Context, companyID, invoiceID string) (*invoices.Invoice, error) {
	var invoice *invoices.Invoice
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.repo.GetByID(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == invoices.StatusVoid {
			return fmt.Errorf("invoice %s: %w", invoice.ID, invoices.ErrAlreadyVoid)
		}
		if invoice.Paid.IsPositive() {
			return fmt.Errorf("invoice %s: %w", invoice.ID, invoices.ErrHasPayments)
		}

		invoice.Status = invoices.StatusVoid
		invoice.DateClosed = nil
		return s.repo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Voided invoice with id ", invoice.ID)
	return invoice, nil
}

func (s *invoiceService) DeleteDraft(ctx context.Context, companyID, invoiceID string) error {
	invoice, err := s.repo.GetByID(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != invoices.StatusDraft {
		return fmt.Errorf("invoice %s: %w", invoice.ID, invoices.ErrNotDraft)
	}
	return s.repo.Delete(ctx, invoice.ID)
}

func (s *invoiceService) GetByID(ctx context.Context, companyID, invoiceID string) (*invoices.Invoice, error) {
	return s.repo.GetByID(ctx, companyID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, query *invoices.Query) (paging.Page[*invoices.Invoice], error) {
	if query.Now.IsZero() {
		query.Now = s.now()
	}
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return paging.Page[*invoices.Invoice]{}, err
	}
	return paging.NewPage(query.Page, items, total), nil
}

func (s *invoiceService) Deliver(ctx context.Context, companyID, invoiceID, method string) (*invoices.Delivery, error) {
	if method == "" {
		method = invoices.DeliveryEmail
	}

	invoice, err := s.repo.GetByID(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != invoices.StatusActive {
		return nil, fmt.Errorf("invoice %s: %w", invoice.ID, invoices.ErrNotDelivered)
	}

	delivery := &invoices.Delivery{
		ID:        uuid.NewString(),
		InvoiceID: invoice.ID,
		Method:    method,
		Status:    invoices.DeliveryPending,
		DateAdded: s.now(),
	}
	if err := s.repo.AddDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// assignNumber draws the next invoice number of the company and renders the
// code from the inv_* settings.
func (s *invoiceService) assignNumber(ctx context.Context, invoice *invoices.Invoice) error {
	if invoice.IDValue > 0 {
		return nil
	}

	start, err := s.settings.Int(ctx, invoice.CompanyID, settings.KeyInvoiceStart)
	if err != nil {
		return err
	}
	padSize, err := s.settings.Int(ctx, invoice.CompanyID, settings.KeyInvoicePadSize)
	if err != nil {
		return err
	}
	padStr, err := s.settings.Get(ctx, invoice.CompanyID, settings.KeyInvoicePadStr)
	if err != nil {
		return err
	}
	format, err := s.settings.Get(ctx, invoice.CompanyID, settings.KeyInvoiceFormat)
	if err != nil {
		return err
	}

	next, err := s.repo.NextIDValue(ctx, invoice.CompanyID, int64(start))
	if err != nil {
		return err
	}

	invoice.IDValue = next
	invoice.IDCode = invoices.FormatIDCode(format, next, padSize, padStr)
	return nil
}

func (s *invoiceService) taxRate(ctx context.Context, companyID string, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		return *requested, nil
	}
	return s.settings.Decimal(ctx, companyID, settings.KeyTaxRate)
}

func buildLines(inputs []invoices.LineInput) []*invoices.Line {
	lines := make([]*invoices.Line, len(inputs))
	for i, in := range inputs {
		lines[i] = &invoices.Line{
			ID:          uuid.NewString(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitAmount:  in.UnitAmount,
			Taxable:     in.Taxable,
			Order:       i,
		}
	}
	return lines
}
