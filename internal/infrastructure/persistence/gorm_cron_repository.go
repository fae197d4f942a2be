package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormCronRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormCronRepository creates a new GORM-based cron Repository implementation
func NewGormCronRepository(db *gorm.DB, logger logger.Logger) (cron.Repository, error) {
	return &gormCronRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormCronRepository) EnsureTask(ctx context.Context, task *cron.Task) (*cron.Task, error) {
	db := conn(ctx, r.db)

	var model models.CronTaskModel
	err := db.Where("key = ?", task.Key).First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch task %s: %w", task.Key, err)
	}

	created := *task
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	model.FromDomain(&created)
	if err := db.Create(&model).Error; err != nil {
		return nil, fmt.Errorf("failed to create task %s: %w", task.Key, err)
	}

	r.logger.Info("Registered cron task ", created.Key)
	return &created, nil
}

func (r *gormCronRepository) CreateRun(ctx context.Context, run *cron.TaskRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.CronTaskRunModel{}
	model.FromDomain(run)

	if err := conn(ctx, r.db).Omit("Task").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create task run: %w", err)
	}

	r.logger.Info("Scheduled task run with id ", run.ID, " for company ", run.CompanyID)
	return nil
}

func (r *gormCronRepository) UpdateRun(ctx context.Context, run *cron.TaskRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.CronTaskRunModel{}
	model.FromDomain(run)

	if err := conn(ctx, r.db).Omit("Task").Save(model).Error; err != nil {
		return fmt.Errorf("failed to update task run: %w", err)
	}
	return nil
}

func (r *gormCronRepository) GetRun(ctx context.Context, companyID, runID string) (*cron.TaskRun, error) {
	var model models.CronTaskRunModel
	err := conn(ctx, r.db).Joins("Task").
		Where("cron_task_runs.id = ? AND cron_task_runs.company_id = ?", runID, companyID).
		First(&model).Error
	if err != nil {
		return nil, notFound(err, cron.ErrRunNotFound, "task run", runID)
	}
	return model.ToDomain(), nil
}

func (r *gormCronRepository) GetRunByKey(ctx context.Context, companyID, key string) (*cron.TaskRun, error) {
	var model models.CronTaskRunModel
	err := conn(ctx, r.db).Joins("Task").
		Where("cron_task_runs.company_id = ? AND \"Task\".\"key\" = ?", companyID, key).
		First(&model).Error
	if err != nil {
		return nil, notFound(err, cron.ErrNotFound, "task", key)
	}
	return model.ToDomain(), nil
}

func (r *gormCronRepository) ListRuns(ctx context.Context, companyID string) ([]*cron.TaskRun, error) {
	var modelList []*models.CronTaskRunModel
	err := conn(ctx, r.db).Joins("Task").
		Where("cron_task_runs.company_id = ?", companyID).
		Order("\"Task\".\"plugin_dir\", \"Task\".\"key\"").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task runs: %w", err)
	}

	domainList := make([]*cron.TaskRun, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormCronRepository) DeletePluginRuns(ctx context.Context, companyID, pluginDir string) error {
	db := conn(ctx, r.db)

	taskIDs := db.Model(&models.CronTaskModel{}).Select("id").Where("plugin_dir = ?", pluginDir)
	if err := db.Where("company_id = ? AND task_id IN (?)", companyID, taskIDs).Delete(&models.CronTaskRunModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete plugin task runs: %w", err)
	}

	// task definitions no other company uses
	inUse := db.Model(&models.CronTaskRunModel{}).Select("task_id")
	if err := db.Where("plugin_dir = ? AND id NOT IN (?)", pluginDir, inUse).Delete(&models.CronTaskModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete plugin tasks: %w", err)
	}

	r.logger.Info("Removed cron tasks of plugin ", pluginDir, " for company ", companyID)
	return nil
}

func (r *gormCronRepository) CreateLog(ctx context.Context, log *cron.RunLog) error {
	model := &models.CronRunLogModel{}
	model.FromDomain(log)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}
	return nil
}

func (r *gormCronRepository) UpdateLog(ctx context.Context, log *cron.RunLog) error {
	model := &models.CronRunLogModel{}
	model.FromDomain(log)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update run log: %w", err)
	}
	return nil
}

func (r *gormCronRepository) ListLogs(ctx context.Context, query *cron.LogQuery) ([]*cron.RunLog, int64, error) {
	dbQuery := conn(ctx, r.db).Model(&models.CronRunLogModel{}).Where("company_id = ?", query.CompanyID)
	if query.Group != "" {
		dbQuery = dbQuery.Where("run_group = ?", query.Group)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count run logs: %w", err)
	}

	var modelList []*models.CronRunLogModel
	err := dbQuery.Order("started_at desc, id").
		Limit(query.Page.Limit()).
		Offset(query.Page.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch run logs: %w", err)
	}

	domainList := make([]*cron.RunLog, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, total, nil
}

func (r *gormCronRepository) DeleteLogsBefore(ctx context.Context, companyID string, before time.Time) (int64, error) {
	result := conn(ctx, r.db).Where("company_id = ? AND started_at < ?", companyID, before).Delete(&models.CronRunLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge run logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
