package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormAccountRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormAccountRepository creates a new GORM-based accounts Repository implementation
func NewGormAccountRepository(db *gorm.DB, logger logger.Logger) (accounts.Repository, error) {
	return &gormAccountRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormAccountRepository) Create(ctx context.Context, account *accounts.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AccountModel{}
	model.FromDomain(account)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment account: %w", err)
	}

	r.logger.Info("Created payment account with id ", account.ID)
	return nil
}

func (r *gormAccountRepository) Update(ctx context.Context, account *accounts.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.AccountModel{}
	model.FromDomain(account)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update payment account: %w", err)
	}

	r.logger.Info("Updated payment account with id ", account.ID)
	return nil
}

func (r *gormAccountRepository) GetByID(ctx context.Context, clientID, accountID string) (*accounts.Account, error) {
	var model models.AccountModel
	err := conn(ctx, r.db).Where("id = ? AND client_id = ?", accountID, clientID).First(&model).Error
	if err != nil {
		return nil, notFound(err, accounts.ErrNotFound, "payment account", accountID)
	}
	return model.ToDomain(), nil
}

func (r *gormAccountRepository) ListActive(ctx context.Context, clientID string) ([]*accounts.Account, error) {
	var modelList []*models.AccountModel
	err := conn(ctx, r.db).
		Where("client_id = ? AND status = ?", clientID, accounts.StatusActive).
		Order("date_added").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment accounts: %w", err)
	}
	return toAccounts(modelList), nil
}

func (r *gormAccountRepository) ListExpiring(ctx context.Context, companyID, month string) ([]*accounts.Account, error) {
	var modelList []*models.AccountModel
	err := conn(ctx, r.db).
		Joins("JOIN clients ON clients.id = accounts.client_id").
		Where("clients.company_id = ? AND accounts.type = ? AND accounts.status = ? AND accounts.expiration = ?",
			companyID, accounts.TypeCC, accounts.StatusActive, month).
		Order("accounts.client_id").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring cards: %w", err)
	}
	return toAccounts(modelList), nil
}

func toAccounts(modelList []*models.AccountModel) []*accounts.Account {
	domainList := make([]*accounts.Account, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList
}
