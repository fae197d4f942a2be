package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormThemeRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormThemeRepository creates a new GORM-based themes Repository implementation
func NewGormThemeRepository(db *gorm.DB, logger logger.Logger) (themes.Repository, error) {
	return &gormThemeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormThemeRepository) Create(ctx context.Context, theme *themes.Theme) error {
	if err := theme.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ThemeModel{}
	model.FromDomain(theme)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create theme: %w", err)
	}

	r.logger.Info("Created theme with id ", theme.ID)
	return nil
}

func (r *gormThemeRepository) Update(ctx context.Context, theme *themes.Theme) error {
	if err := theme.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ThemeModel{}
	model.FromDomain(theme)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}

	r.logger.Info("Updated theme with id ", theme.ID)
	return nil
}

func (r *gormThemeRepository) Delete(ctx context.Context, themeID string) error {
	if err := conn(ctx, r.db).Where("id = ? AND company_id IS NOT NULL", themeID).Delete(&models.ThemeModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete theme: %w", err)
	}

	r.logger.Info("Deleted theme with id ", themeID)
	return nil
}

func (r *gormThemeRepository) GetByID(ctx context.Context, companyID, themeID string) (*themes.Theme, error) {
	var model models.ThemeModel
	err := conn(ctx, r.db).
		Where("id = ? AND (company_id IS NULL OR company_id = ?)", themeID, companyID).
		First(&model).Error
	if err != nil {
		return nil, notFound(err, themes.ErrNotFound, "theme", themeID)
	}
	return model.ToDomain(), nil
}

func (r *gormThemeRepository) List(ctx context.Context, companyID, themeType string) ([]*themes.Theme, error) {
	dbQuery := conn(ctx, r.db).Where("company_id IS NULL OR company_id = ?", companyID)
	if themeType != "" {
		dbQuery = dbQuery.Where("type = ?", themeType)
	}

	var modelList []*models.ThemeModel
	// system themes (NULL company) first
	err := dbQuery.Order("CASE WHEN company_id IS NULL THEN 0 ELSE 1 END, date_added, name").Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch themes: %w", err)
	}

	domainList := make([]*themes.Theme, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}
