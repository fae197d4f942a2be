package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels lists every table managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&models.SettingModel{},
		&models.StaffModel{},
		&models.ClientModel{},
		&models.AccountModel{},
		&models.InvoiceModel{},
		&models.InvoiceLineModel{},
		&models.InvoiceDeliveryModel{},
		&models.InvoiceSequenceModel{},
		&models.TransactionModel{},
		&models.TransactionApplicationModel{},
		&models.LogModel{},
		&models.ThemeModel{},
		&models.PluginModel{},
		&models.CronTaskModel{},
		&models.CronTaskRunModel{},
		&models.CronRunLogModel{},
		&models.CronLockModel{},
	}
}

// AutoMigrate creates or updates the schema and seeds the system themes and
// system cron tasks. It is safe to run repeatedly.
func AutoMigrate(ctx context.Context, db *gorm.DB, logger logger.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedThemes(tx, logger); err != nil {
			return err
		}
		return seedCronTasks(tx, logger)
	})
}

func systemThemes() []themes.Theme {
	palette := func(themeType, base, text, accent string) map[string]string {
		colors := map[string]string{}
		for _, key := range themes.ColorKeys[themeType] {
			switch key {
			case "header_text", "navigation_text", "button_text":
				colors[key] = "#ffffff"
			case "text":
				colors[key] = text
			case "link", "button_bg":
				colors[key] = accent
			case "page_bg", "box_bg":
				colors[key] = "#f7f7f7"
			default:
				colors[key] = base
			}
		}
		return colors
	}

	return []themes.Theme{
		{Type: themes.TypeAdmin, Name: "Default", Colors: palette(themes.TypeAdmin, "#2b3a4a", "#333333", "#2f7fc1")},
		{Type: themes.TypeAdmin, Name: "Slate", Colors: palette(themes.TypeAdmin, "#3c3f41", "#222222", "#6a8759")},
		{Type: themes.TypeClient, Name: "Default", Colors: palette(themes.TypeClient, "#264653", "#333333", "#2a9d8f")},
	}
}

func seedThemes(tx *gorm.DB, logger logger.Logger) error {
	for _, theme := range systemThemes() {
		var count int64
		err := tx.Model(&models.ThemeModel{}).
			Where("company_id IS NULL AND type = ? AND name = ?", theme.Type, theme.Name).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check system theme %s: %w", theme.Name, err)
		}
		if count > 0 {
			continue
		}

		theme.ID = uuid.NewString()
		theme.DateAdded = time.Now().UTC()
		model := &models.ThemeModel{}
		model.FromDomain(&theme)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to seed system theme %s: %w", theme.Name, err)
		}
		logger.Info("Seeded system ", theme.Type, " theme ", theme.Name)
	}
	return nil
}

func seedCronTasks(tx *gorm.DB, logger logger.Logger) error {
	for _, system := range cron.SystemTasks() {
		var model models.CronTaskModel
		err := tx.Where("key = ?", system.Task.Key).First(&model).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check cron task %s: %w", system.Task.Key, err)
		}

		task := system.Task
		task.ID = uuid.NewString()
		model.FromDomain(&task)
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to seed cron task %s: %w", task.Key, err)
		}
		logger.Info("Seeded cron task ", task.Key)
	}
	return nil
}
