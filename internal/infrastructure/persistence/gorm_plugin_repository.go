package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormPluginRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPluginRepository creates a new GORM-based plugins Repository implementation.
// The returned value also reports enabled plugin directories to the cron runner.
func NewGormPluginRepository(db *gorm.DB, logger logger.Logger) (PluginRepository, error) {
	return &gormPluginRepository{
		db:     db,
		logger: logger,
	}, nil
}

// PluginRepository persists plugins and exposes their enabled state
type PluginRepository interface {
	plugins.Repository
	cron.PluginState
}

func (r *gormPluginRepository) Create(ctx context.Context, plugin *plugins.Plugin) error {
	if err := plugin.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PluginModel{}
	model.FromDomain(plugin)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to install plugin: %w", err)
	}

	r.logger.Info("Installed plugin ", plugin.Dir, " with id ", plugin.ID)
	return nil
}

func (r *gormPluginRepository) Update(ctx context.Context, plugin *plugins.Plugin) error {
	if err := plugin.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PluginModel{}
	model.FromDomain(plugin)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update plugin: %w", err)
	}

	r.logger.Info("Updated plugin with id ", plugin.ID)
	return nil
}

func (r *gormPluginRepository) Delete(ctx context.Context, pluginID string) error {
	if err := conn(ctx, r.db).Where("id = ?", pluginID).Delete(&models.PluginModel{}).Error; err != nil {
		return fmt.Errorf("failed to uninstall plugin: %w", err)
	}

	r.logger.Info("Uninstalled plugin with id ", pluginID)
	return nil
}

func (r *gormPluginRepository) GetByID(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error) {
	var model models.PluginModel
	err := conn(ctx, r.db).Where("id = ? AND company_id = ?", pluginID, companyID).First(&model).Error
	if err != nil {
		return nil, notFound(err, plugins.ErrNotFound, "plugin", pluginID)
	}
	return model.ToDomain(), nil
}

func (r *gormPluginRepository) GetByDir(ctx context.Context, companyID, dir string) (*plugins.Plugin, error) {
	var model models.PluginModel
	err := conn(ctx, r.db).Where("company_id = ? AND dir = ?", companyID, dir).First(&model).Error
	if err != nil {
		return nil, notFound(err, plugins.ErrNotFound, "plugin", dir)
	}
	return model.ToDomain(), nil
}

func (r *gormPluginRepository) List(ctx context.Context, companyID string) ([]*plugins.Plugin, error) {
	var modelList []*models.PluginModel
	if err := conn(ctx, r.db).Where("company_id = ?", companyID).Order("name").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch plugins: %w", err)
	}

	domainList := make([]*plugins.Plugin, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormPluginRepository) EnabledDirs(ctx context.Context, companyID string) (map[string]bool, error) {
	var dirs []string
	err := conn(ctx, r.db).Model(&models.PluginModel{}).
		Where("company_id = ? AND enabled = ?", companyID, true).
		Pluck("dir", &dirs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enabled plugins: %w", err)
	}

	enabled := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		enabled[dir] = true
	}
	return enabled, nil
}
