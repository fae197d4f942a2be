package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormLogRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormLogRepository creates a new GORM-based logs Repository implementation
func NewGormLogRepository(db *gorm.DB, logger logger.Logger) (logs.Repository, error) {
	return &gormLogRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormLogRepository) Create(ctx context.Context, entry *logs.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.LogModel{}
	model.FromDomain(entry)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	return nil
}

func (r *gormLogRepository) List(ctx context.Context, query *logs.Query) ([]*logs.Entry, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := conn(ctx, r.db).Model(&models.LogModel{}).
		Where("company_id = ? AND type = ?", query.CompanyID, query.Type)
	if query.ClientID != "" {
		dbQuery = dbQuery.Where("client_id = ?", query.ClientID)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	var modelList []*models.LogModel
	err := dbQuery.Order("date_added desc, id").
		Limit(query.Page.Limit()).
		Offset(query.Page.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch log entries: %w", err)
	}

	domainList := make([]*logs.Entry, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, total, nil
}

func (r *gormLogRepository) DeleteBefore(ctx context.Context, companyID string, before time.Time) (int64, error) {
	result := conn(ctx, r.db).Where("company_id = ? AND date_added < ?", companyID, before).Delete(&models.LogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge log entries: %w", result.Error)
	}

	r.logger.Info("Purged ", result.RowsAffected, " log entries of company ", companyID)
	return result.RowsAffected, nil
}
