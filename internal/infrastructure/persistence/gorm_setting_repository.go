package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormSettingRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormSettingRepository creates a new GORM-based settings Repository implementation
func NewGormSettingRepository(db *gorm.DB, logger logger.Logger) (settings.Repository, error) {
	return &gormSettingRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormSettingRepository) List(ctx context.Context, companyID string) ([]*settings.Setting, error) {
	var modelList []*models.SettingModel
	if err := conn(ctx, r.db).Where("company_id = ?", companyID).Order("key").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	domainList := make([]*settings.Setting, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

// Get returns nil without error when the key has no stored value
func (r *gormSettingRepository) Get(ctx context.Context, companyID, key string) (*settings.Setting, error) {
	var model models.SettingModel
	err := conn(ctx, r.db).Where("company_id = ? AND key = ?", companyID, key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch setting %s: %w", key, err)
	}
	return model.ToDomain(), nil
}

func (r *gormSettingRepository) Upsert(ctx context.Context, setting *settings.Setting) error {
	model := &models.SettingModel{}
	model.FromDomain(setting)

	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", setting.Key, err)
	}

	r.logger.Info("Saved setting ", setting.Key, " for company ", setting.CompanyID)
	return nil
}

func (r *gormSettingRepository) Delete(ctx context.Context, companyID, key string) error {
	if err := conn(ctx, r.db).Where("company_id = ? AND key = ?", companyID, key).Delete(&models.SettingModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}

	r.logger.Info("Reset setting ", key, " for company ", companyID)
	return nil
}
