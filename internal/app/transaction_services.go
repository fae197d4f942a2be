package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/uow"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionService implements the transactions.Service interface
type transactionService struct {
	repo        transactions.Repository
	invoiceRepo invoices.Repository
	clientRepo  clients.Repository
	settings    settings.Service
	transactor  uow.Transactor
	logger      logger.Logger
	now         func() time.Time
}

// NewTransactionService creates a new transactions.Service
func NewTransactionService(
	repo transactions.Repository,
	invoiceRepo invoices.Repository,
	clientRepo clients.Repository,
	settingService settings.Service,
	transactor uow.Transactor,
	logger logger.Logger,
) (transactions.Service, error) {
	return &transactionService{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		settings:    settingService,
		transactor:  transactor,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Record stores a payment and, for approved payments, applies it in the same
// database transaction.
func (s *transactionService) Record(ctx context.Context, companyID string, input *transactions.Input) (*transactions.Transaction, error) {
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
	status := input.Status
	if status == "" {
		status = transactions.StatusApproved
	}

	txn := &transactions.Transaction{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		ClientID:  input.ClientID,
		AccountID: input.AccountID,
		Type:      input.Type,
		Amount:    input.Amount.Round(2),
		Currency:  currency,
		Status:    status,
		Reference: input.Reference,
		DateAdded: s.now(),
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, txn); err != nil {
			return err
		}
		if txn.Status != transactions.StatusApproved {
			return nil
		}

		switch {
		case len(input.Allocations) > 0:
			return s.apply(ctx, txn, input.Allocations)
		case input.AutoApply:
			return s.autoApply(ctx, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, companyID, txn.ID)
}

func (s *transactionService) Apply(ctx context.Context, companyID, transactionID string, allocations []transactions.Allocation) (*transactions.Transaction, error) {
	if err := transactions.ValidateAllocations(allocations); err != nil {
		return nil, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetForUpdate(ctx, companyID, transactionID)
		if err != nil {
			return err
		}
		return s.apply(ctx, txn, allocations)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, companyID, transactionID)
}

func (s *transactionService) AutoApply(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetForUpdate(ctx, companyID, transactionID)
		if err != nil {
			return err
		}
		return s.autoApply(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, companyID, transactionID)
}

// Void removes every application, reopening the invoices it had paid.
func (s *transactionService) Void(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetForUpdate(ctx, companyID, transactionID)
		if err != nil {
			return err
		}
		if txn.Status == transactions.StatusVoid {
			return fmt.Errorf("transaction %s: %w", txn.ID, transactions.ErrAlreadyVoid)
		}

		now := s.now()
		for _, application := range txn.Applied {
			invoice, err := s.invoiceRepo.GetForUpdate(ctx, application.InvoiceID)
			if err != nil {
				return err
			}
			invoice.Paid = invoice.Paid.Sub(application.Amount)
			if invoice.Paid.IsNegative() {
				invoice.Paid = decimal.Zero
			}
			invoice.SyncClosed(now)
			if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteApplications(ctx, txn.ID); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, txn.ID, transactions.StatusVoid)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Voided transaction with id ", transactionID)
	return s.repo.GetByID(ctx, companyID, transactionID)
}

func (s *transactionService) GetByID(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	return s.repo.GetByID(ctx, companyID, transactionID)
}

func (s *transactionService) List(ctx context.Context, query *transactions.Query) (paging.Page[*transactions.Transaction], error) {
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return paging.Page[*transactions.Transaction]{}, err
	}
	return paging.NewPage(query.Page, items, total), nil
}

func (s *transactionService) ListWithCredit(ctx context.Context, companyID string) ([]*transactions.Transaction, error) {
	approved, err := s.repo.ListApproved(ctx, companyID)
	if err != nil {
		return nil, err
	}

	withCredit := make([]*transactions.Transaction, 0, len(approved))
	for _, txn := range approved {
		if txn.Unapplied().IsPositive() {
			withCredit = append(withCredit, txn)
		}
	}
	return withCredit, nil
}

// apply credits allocations to invoices. It must run inside a transaction.
func (s *transactionService) apply(ctx context.Context, txn *transactions.Transaction, allocations []transactions.Allocation) error {
	if txn.Status != transactions.StatusApproved {
		return fmt.Errorf("transaction %s: %w", txn.ID, transactions.ErrNotApproved)
	}

	requested := decimal.Zero
	for _, a := range allocations {
		requested = requested.Add(a.Amount)
	}
	if requested.GreaterThan(txn.Unapplied()) {
		return fmt.Errorf("transaction %s: %w", txn.ID, transactions.ErrExceedsUnapplied)
	}

	now := s.now()
	applications := make([]*transactions.Application, 0, len(allocations))
	for _, a := range allocations {
		invoice, err := s.invoiceRepo.GetForUpdate(ctx, a.InvoiceID)
		if err != nil {
			return err
		}
		if err := checkApplicable(txn, invoice, a.Amount); err != nil {
			return err
		}

		invoice.Paid = invoice.Paid.Add(a.Amount)
		invoice.SyncClosed(now)
		if err := s.invoiceRepo.UpdateTotals(ctx, invoice); err != nil {
			return err
		}

		applications = append(applications, &transactions.Application{
			TransactionID: txn.ID,
			InvoiceID:     invoice.ID,
			Amount:        a.Amount,
			DateApplied:   now,
		})
	}

	if err := s.repo.AddApplications(ctx, applications); err != nil {
		return err
	}
	txn.Applied = append(txn.Applied, applications...)
	return nil
}

// autoApply spreads the unapplied credit over the client's open invoices in
// the transaction currency, oldest due date first.
func (s *transactionService) autoApply(ctx context.Context, txn *transactions.Transaction) error {
	if txn.Status != transactions.StatusApproved {
		return fmt.Errorf("transaction %s: %w", txn.ID, transactions.ErrNotApproved)
	}

	remaining := txn.Unapplied()
	if !remaining.IsPositive() {
		return nil
	}

	open, err := s.invoiceRepo.ListOpenByClient(ctx, txn.ClientID, txn.Currency)
	if err != nil {
		return err
	}

	var allocations []transactions.Allocation
	for _, invoice := range open {
		if !remaining.IsPositive() {
			break
		}
		due := invoice.Due()
		if !due.IsPositive() {
			continue
		}
		amount := decimal.Min(due, remaining)
		allocations = append(allocations, transactions.Allocation{InvoiceID: invoice.ID, Amount: amount})
		remaining = remaining.Sub(amount)
	}

	if len(allocations) == 0 {
		return nil
	}
	return s.apply(ctx, txn, allocations)
}

func checkApplicable(txn *transactions.Transaction, invoice *invoices.Invoice, amount decimal.Decimal) error {
	switch {
	case invoice.CompanyID != txn.CompanyID:
		return fmt.Errorf("invoice with ID %s: %w", invoice.ID, invoices.ErrNotFound)
	case invoice.ClientID != txn.ClientID:
		return fmt.Errorf("invoice %s: %w", invoice.ID, transactions.ErrClientMismatch)
	case invoice.Currency != txn.Currency:
		return fmt.Errorf("invoice %s: %w", invoice.ID, transactions.ErrCurrencyMismatch)
	case !invoice.IsOpen():
		return fmt.Errorf("invoice %s: %w", invoice.ID, transactions.ErrInvoiceNotOpen)
	case amount.GreaterThan(invoice.Due()):
		return fmt.Errorf("invoice %s: %w", invoice.ID, transactions.ErrExceedsInvoiceDue)
	}
	return nil
}
