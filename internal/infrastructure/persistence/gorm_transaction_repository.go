package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormTransactionRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTransactionRepository creates a new GORM-based transactions Repository implementation
func NewGormTransactionRepository(db *gorm.DB, logger logger.Logger) (transactions.Repository, error) {
	return &gormTransactionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTransactionRepository) Create(ctx context.Context, txn *transactions.Transaction) error {
	if err := txn.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TransactionModel{}
	model.FromDomain(txn)

	if err := conn(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.logger.Info("Created transaction with id ", txn.ID)
	return nil
}

func (r *gormTransactionRepository) UpdateStatus(ctx context.Context, transactionID, status string) error {
	result := conn(ctx, r.db).Model(&models.TransactionModel{}).
		Where("id = ?", transactionID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction with ID %s: %w", transactionID, transactions.ErrNotFound)
	}

	r.logger.Info("Set status of transaction with id ", transactionID, " to ", status)
	return nil
}

// AddApplications adds to existing applications of the same invoice
func (r *gormTransactionRepository) AddApplications(ctx context.Context, applications []*transactions.Application) error {
	if len(applications) == 0 {
		return nil
	}

	modelList := make([]*models.TransactionApplicationModel, len(applications))
	for i, a := range applications {
		modelList[i] = &models.TransactionApplicationModel{}
		modelList[i].FromDomain(a)
	}

	db := conn(ctx, r.db)
	for _, model := range modelList {
		var existing models.TransactionApplicationModel
		err := db.Where("transaction_id = ? AND invoice_id = ?", model.TransactionID, model.InvoiceID).
			Limit(1).Find(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to read applied amount: %w", err)
		}
		if existing.TransactionID != "" {
			model.Amount = model.Amount.Add(existing.Amount)
		}
		if err := db.Save(model).Error; err != nil {
			return fmt.Errorf("failed to apply transaction: %w", err)
		}
	}

	r.logger.Info("Applied transaction with id ", applications[0].TransactionID, " to ", len(applications), " invoice(s)")
	return nil
}

func (r *gormTransactionRepository) DeleteApplications(ctx context.Context, transactionID string) error {
	if err := conn(ctx, r.db).Where("transaction_id = ?", transactionID).Delete(&models.TransactionApplicationModel{}).Error; err != nil {
		return fmt.Errorf("failed to unapply transaction: %w", err)
	}

	r.logger.Info("Unapplied transaction with id ", transactionID)
	return nil
}

func (r *gormTransactionRepository) GetByID(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	var model models.TransactionModel
	err := conn(ctx, r.db).Preload("Applications").
		Where("id = ? AND company_id = ?", transactionID, companyID).
		First(&model).Error
	if err != nil {
		return nil, notFound(err, transactions.ErrNotFound, "transaction", transactionID)
	}
	return model.ToDomain(), nil
}

func (r *gormTransactionRepository) GetForUpdate(ctx context.Context, companyID, transactionID string) (*transactions.Transaction, error) {
	db := conn(ctx, r.db)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.TransactionModel
	if err := db.Where("id = ? AND company_id = ?", transactionID, companyID).First(&model).Error; err != nil {
		return nil, notFound(err, transactions.ErrNotFound, "transaction", transactionID)
	}

	// applications are read after the lock so they include committed writes of
	// the previous holder
	var applications []models.TransactionApplicationModel
	if err := conn(ctx, r.db).Where("transaction_id = ?", transactionID).Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applications of transaction %s: %w", transactionID, err)
	}
	model.Applications = applications
	return model.ToDomain(), nil
}

func (r *gormTransactionRepository) List(ctx context.Context, query *transactions.Query) ([]*transactions.Transaction, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := conn(ctx, r.db).Model(&models.TransactionModel{}).Where("company_id = ?", query.CompanyID)

	// Apply filters
	if query.ClientID != "" {
		dbQuery = dbQuery.Where("client_id = ?", query.ClientID)
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		dbQuery = whereContains(dbQuery, query.Search, "reference")
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var modelList []*models.TransactionModel
	err := dbQuery.Preload("Applications").
		Order("date_added desc, id").
		Limit(query.Page.Limit()).
		Offset(query.Page.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return toTransactions(modelList), total, nil
}

func (r *gormTransactionRepository) ListApproved(ctx context.Context, companyID string) ([]*transactions.Transaction, error) {
	var modelList []*models.TransactionModel
	err := conn(ctx, r.db).Preload("Applications").
		Where("company_id = ? AND status = ?", companyID, transactions.StatusApproved).
		Order("date_added, id").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved transactions: %w", err)
	}
	return toTransactions(modelList), nil
}

func toTransactions(modelList []*models.TransactionModel) []*transactions.Transaction {
	domainList := make([]*transactions.Transaction, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList
}
