package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormClientRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormClientRepository creates a new GORM-based clients Repository implementation
func NewGormClientRepository(db *gorm.DB, logger logger.Logger) (clients.Repository, error) {
	return &gormClientRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormClientRepository) Create(ctx context.Context, client *clients.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ClientModel{}
	model.FromDomain(client)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	r.logger.Info("Created client with id ", client.ID)
	return nil
}

func (r *gormClientRepository) Update(ctx context.Context, client *clients.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ClientModel{}
	model.FromDomain(client)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	r.logger.Info("Updated client with id ", client.ID)
	return nil
}

func (r *gormClientRepository) Delete(ctx context.Context, clientID string) error {
	db := conn(ctx, r.db)
	if err := db.Where("client_id = ?", clientID).Delete(&models.AccountModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete client accounts: %w", err)
	}
	if err := db.Where("id = ?", clientID).Delete(&models.ClientModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	r.logger.Info("Deleted client with id ", clientID)
	return nil
}

func (r *gormClientRepository) GetByID(ctx context.Context, companyID, clientID string) (*clients.Client, error) {
	var model models.ClientModel
	err := conn(ctx, r.db).Where("id = ? AND company_id = ?", clientID, companyID).First(&model).Error
	if err != nil {
		return nil, notFound(err, clients.ErrNotFound, "client", clientID)
	}
	return model.ToDomain(), nil
}

func (r *gormClientRepository) GetByUsername(ctx context.Context, companyID, username string) (*clients.Client, error) {
	var model models.ClientModel
	err := conn(ctx, r.db).Where("company_id = ? AND username = ?", companyID, username).First(&model).Error
	if err != nil {
		return nil, notFound(err, clients.ErrNotFound, "client", username)
	}
	return model.ToDomain(), nil
}

func (r *gormClientRepository) List(ctx context.Context, query *clients.Query) ([]*clients.Client, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := conn(ctx, r.db).Model(&models.ClientModel{}).Where("company_id = ?", query.CompanyID)

	// Apply filters
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		dbQuery = whereContains(dbQuery, query.Search,
			"first_name", "last_name", "email", "username", "company", "first_name || ' ' || last_name")
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var modelList []*models.ClientModel
	err := dbQuery.Order("last_name, first_name, id").
		Limit(query.Page.Limit()).
		Offset(query.Page.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	domainList := make([]*clients.Client, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, total, nil
}

func (r *gormClientRepository) HasBillingHistory(ctx context.Context, clientID string) (bool, error) {
	db := conn(ctx, r.db)

	var invoiceCount int64
	err := db.Model(&models.InvoiceModel{}).
		Where("client_id = ? AND status <> ?", clientID, invoices.StatusVoid).
		Count(&invoiceCount).Error
	if err != nil {
		return false, fmt.Errorf("failed to count invoices: %w", err)
	}
	if invoiceCount > 0 {
		return true, nil
	}

	var txnCount int64
	err = db.Model(&models.TransactionModel{}).
		Where("client_id = ? AND status <> ?", clientID, transactions.StatusVoid).
		Count(&txnCount).Error
	if err != nil {
		return false, fmt.Errorf("failed to count transactions: %w", err)
	}
	return txnCount > 0, nil
}

