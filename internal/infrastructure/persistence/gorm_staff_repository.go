package persistence

import (
	"context"
	"fmt"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormStaffRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormStaffRepository creates a new GORM-based staff Repository implementation
func NewGormStaffRepository(db *gorm.DB, logger logger.Logger) (staff.Repository, error) {
	return &gormStaffRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormStaffRepository) Create(ctx context.Context, member *staff.Staff) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.StaffModel{}
	model.FromDomain(member)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	r.logger.Info("Created staff member with id ", member.ID)
	return nil
}

func (r *gormStaffRepository) Update(ctx context.Context, member *staff.Staff) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.StaffModel{}
	model.FromDomain(member)

	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	r.logger.Info("Updated staff member with id ", member.ID)
	return nil
}

func (r *gormStaffRepository) GetByID(ctx context.Context, staffID string) (*staff.Staff, error) {
	var model models.StaffModel
	if err := conn(ctx, r.db).Where("id = ?", staffID).First(&model).Error; err != nil {
		return nil, notFound(err, staff.ErrNotFound, "staff member", staffID)
	}
	return model.ToDomain(), nil
}

func (r *gormStaffRepository) GetByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	var model models.StaffModel
	if err := conn(ctx, r.db).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, notFound(err, staff.ErrNotFound, "staff member", username)
	}
	return model.ToDomain(), nil
}

func (r *gormStaffRepository) CompanyIDs(ctx context.Context) ([]string, error) {
	var companyIDs []string
	err := conn(ctx, r.db).Model(&models.StaffModel{}).
		Where("status = ?", staff.StatusActive).
		Distinct().
		Order("company_id").
		Pluck("company_id", &companyIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companyIDs, nil
}
