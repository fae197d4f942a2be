package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/infrastructure/persistence/models"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormInvoiceRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormInvoiceRepository creates a new GORM-based invoices Repository implementation
func NewGormInvoiceRepository(db *gorm.DB, logger logger.Logger) (invoices.Repository, error) {
	return &gormInvoiceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormInvoiceRepository) Create(ctx context.Context, invoice *invoices.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.InvoiceModel{}
	model.FromDomain(invoice)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	r.logger.Info("Created invoice with id ", invoice.ID)
	return nil
}

func (r *gormInvoiceRepository) Update(ctx context.Context, invoice *invoices.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.InvoiceModel{}
	model.FromDomain(invoice)

	db := conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceLineModel{}).Error; err != nil {
		return fmt.Errorf("failed to replace invoice lines: %w", err)
	}
	if len(model.Lines) > 0 {
		if err := db.Create(&model.Lines).Error; err != nil {
			return fmt.Errorf("failed to replace invoice lines: %w", err)
		}
	}

	r.logger.Info("Updated invoice with id ", invoice.ID)
	return nil
}

func (r *gormInvoiceRepository) UpdateTotals(ctx context.Context, invoice *invoices.Invoice) error {
	err := conn(ctx, r.db).Model(&models.InvoiceModel{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"paid":        invoice.Paid,
			"date_closed": invoice.DateClosed,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update invoice totals: %w", err)
	}

	r.logger.Info("Updated totals of invoice with id ", invoice.ID)
	return nil
}

func (r *gormInvoiceRepository) Delete(ctx context.Context, invoiceID string) error {
	db := conn(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceLineModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete invoice lines: %w", err)
	}
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceDeliveryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete invoice deliveries: %w", err)
	}
	if err := db.Where("id = ?", invoiceID).Delete(&models.InvoiceModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	r.logger.Info("Deleted invoice with id ", invoiceID)
	return nil
}

func (r *gormInvoiceRepository) preloaded(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_order") }).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("date_added") })
}

func (r *gormInvoiceRepository) GetByID(ctx context.Context, companyID, invoiceID string) (*invoices.Invoice, error) {
	var model models.InvoiceModel
	err := r.preloaded(ctx).Where("id = ? AND company_id = ?", invoiceID, companyID).First(&model).Error
	if err != nil {
		return nil, notFound(err, invoices.ErrNotFound, "invoice", invoiceID)
	}
	return model.ToDomain(), nil
}

func (r *gormInvoiceRepository) GetForUpdate(ctx context.Context, invoiceID string) (*invoices.Invoice, error) {
	db := r.preloaded(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.InvoiceModel
	if err := db.Where("id = ?", invoiceID).First(&model).Error; err != nil {
		return nil, notFound(err, invoices.ErrNotFound, "invoice", invoiceID)
	}
	return model.ToDomain(), nil
}

var invoiceSortColumns = map[string]string{
	"date_billed": "date_billed",
	"date_due":    "date_due",
	"id_value":    "id_value",
	"total":       "total",
}

func (r *gormInvoiceRepository) List(ctx context.Context, query *invoices.Query) ([]*invoices.Invoice, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := conn(ctx, r.db).Model(&models.InvoiceModel{}).Where("company_id = ?", query.CompanyID)

	// Apply filters
	if query.ClientID != "" {
		dbQuery = dbQuery.Where("client_id = ?", query.ClientID)
	}
	switch query.Status {
	case invoices.FilterOpen:
		dbQuery = dbQuery.Where("status = ? AND date_closed IS NULL", invoices.StatusActive)
	case invoices.FilterClosed:
		dbQuery = dbQuery.Where("status = ? AND date_closed IS NOT NULL", invoices.StatusActive)
	case invoices.FilterPastDue:
		now := query.Now
		if now.IsZero() {
			now = time.Now()
		}
		dbQuery = dbQuery.Where("status = ? AND date_closed IS NULL AND date_due < ?", invoices.StatusActive, now.UTC())
	case invoices.FilterDraft, invoices.FilterVoid:
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.ExcludeDrafts {
		dbQuery = dbQuery.Where("status <> ?", invoices.StatusDraft)
	}
	if query.Search != "" {
		dbQuery = whereContains(dbQuery, query.Search, "id_code")
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	// Sorting
	sortBy, ok := invoiceSortColumns[query.SortBy]
	if !ok {
		sortBy = "date_billed"
	}
	order := query.SortOrder
	if order == "" {
		order = "desc"
	}

	var modelList []*models.InvoiceModel
	err := dbQuery.Order(fmt.Sprintf("%s %s, id", sortBy, order)).
		Limit(query.Page.Limit()).
		Offset(query.Page.Offset()).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	return toInvoices(modelList), total, nil
}

func (r *gormInvoiceRepository) ListOpenByClient(ctx context.Context, clientID, currency string) ([]*invoices.Invoice, error) {
	var modelList []*models.InvoiceModel
	err := r.preloaded(ctx).
		Where("client_id = ? AND currency = ? AND status = ? AND date_closed IS NULL", clientID, currency, invoices.StatusActive).
		Order("date_due, date_billed, id_value").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open invoices: %w", err)
	}
	return toInvoices(modelList), nil
}

func (r *gormInvoiceRepository) ListBilledBetween(ctx context.Context, companyID string, start, end time.Time, status string) ([]*invoices.Invoice, error) {
	dbQuery := conn(ctx, r.db).
		Where("company_id = ? AND status <> ? AND date_billed >= ? AND date_billed <= ?", companyID, invoices.StatusDraft, start, end)
	if status != "" {
		dbQuery = dbQuery.Where("status = ?", status)
	}

	var modelList []*models.InvoiceModel
	if err := dbQuery.Order("date_billed, id_value").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch billed invoices: %w", err)
	}
	return toInvoices(modelList), nil
}

func (r *gormInvoiceRepository) ListOpen(ctx context.Context, companyID string) ([]*invoices.Invoice, error) {
	var modelList []*models.InvoiceModel
	err := conn(ctx, r.db).
		Where("company_id = ? AND status = ? AND date_closed IS NULL", companyID, invoices.StatusActive).
		Order("date_due, id_value").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open invoices: %w", err)
	}
	return toInvoices(modelList), nil
}

// NextIDValue draws from the company's invoice_sequences row. The UPDATE keeps
// the row locked until the caller's transaction ends, so concurrent
// activations of one company get distinct numbers. The row is seeded from the
// highest number already stored.
func (r *gormInvoiceRepository) NextIDValue(ctx context.Context, companyID string, start int64) (int64, error) {
	var next int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var current sql.NullInt64
		err := tx.Model(&models.InvoiceModel{}).
			Where("company_id = ?", companyID).
			Select("MAX(id_value)").
			Scan(&current).Error
		if err != nil {
			return err
		}

		seed := &models.InvoiceSequenceModel{CompanyID: companyID, LastValue: current.Int64}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return err
		}

		err = tx.Model(&models.InvoiceSequenceModel{}).
			Where("company_id = ?", companyID).
			Update("last_value", gorm.Expr("CASE WHEN last_value + 1 < ? THEN ? ELSE last_value + 1 END", start, start)).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.InvoiceSequenceModel{}).
			Where("company_id = ?", companyID).
			Select("last_value").
			Scan(&next).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to draw invoice number: %w", err)
	}
	return next, nil
}

func (r *gormInvoiceRepository) AddDelivery(ctx context.Context, delivery *invoices.Delivery) error {
	model := &models.InvoiceDeliveryModel{}
	model.FromDomain(delivery)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to queue invoice delivery: %w", err)
	}

	r.logger.Info("Queued ", delivery.Method, " delivery for invoice with id ", delivery.InvoiceID)
	return nil
}

func (r *gormInvoiceRepository) ListPendingDeliveries(ctx context.Context, companyID string, limit int) ([]*invoices.Delivery, error) {
	var modelList []*models.InvoiceDeliveryModel
	err := conn(ctx, r.db).
		Joins("JOIN invoices ON invoices.id = invoice_deliveries.invoice_id").
		Where("invoices.company_id = ? AND invoice_deliveries.status = ?", companyID, invoices.DeliveryPending).
		Order("invoice_deliveries.date_added").
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending deliveries: %w", err)
	}

	domainList := make([]*invoices.Delivery, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormInvoiceRepository) MarkDelivered(ctx context.Context, deliveryID string, at time.Time) error {
	err := conn(ctx, r.db).Model(&models.InvoiceDeliveryModel{}).
		Where("id = ?", deliveryID).
		Updates(map[string]interface{}{"status": invoices.DeliverySent, "date_sent": at}).Error
	if err != nil {
		return fmt.Errorf("failed to mark delivery %s sent: %w", deliveryID, err)
	}
	return nil
}

func toInvoices(modelList []*models.InvoiceModel) []*invoices.Invoice {
	domainList := make([]*invoices.Invoice, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList
}
