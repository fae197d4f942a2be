package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/accounts"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/transactions"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
)

// deliveryBatchSize caps the deliveries sent by one deliver_invoices run
const deliveryBatchSize = 100

// SystemTaskHandlers runs the built-in cron tasks
type SystemTaskHandlers struct {
	Settings     settings.Service
	Logs         logs.Service
	CronRepo     cron.Repository
	InvoiceRepo  invoices.Repository
	Transactions transactions.Service
	Accounts     accounts.Service
	Logger       logger.Logger
}

// Register binds every built-in task key to its handler
func (h *SystemTaskHandlers) Register(registry *cron.Registry) {
	registry.Register(cron.TaskCleanupLogs, h.CleanupLogs)
	registry.Register(cron.TaskDeliverInvoices, h.DeliverInvoices)
	registry.Register(cron.TaskApplyCredits, h.ApplyCredits)
	registry.Register(cron.TaskCardExpirationReminders, h.CardExpirationReminders)
}

// CleanupLogs deletes log entries and run logs older than log_days
func (h *SystemTaskHandlers) CleanupLogs(ctx context.Context, companyID string, now time.Time) (string, error) {
	days, err := h.Settings.Int(ctx, companyID, settings.KeyLogDays)
	if err != nil {
		return "", err
	}
	cutoff := now.AddDate(0, 0, -days)

	entries, err := h.Logs.Purge(ctx, companyID, cutoff)
	if err != nil {
		return "", err
	}
	runLogs, err := h.CronRepo.DeleteLogsBefore(ctx, companyID, cutoff.UTC())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Deleted %d log entries and %d run logs older than %d days.", entries, runLogs, days), nil
}

// DeliverInvoices sends queued deliveries. Sending is recorded as an email
// log entry.
func (h *SystemTaskHandlers) DeliverInvoices(ctx context.Context, companyID string, now time.Time) (string, error) {
	pending, err := h.InvoiceRepo.ListPendingDeliveries(ctx, companyID, deliveryBatchSize)
	if err != nil {
		return "", err
	}

	sent := 0
	for _, delivery := range pending {
		invoice, err := h.InvoiceRepo.GetByID(ctx, companyID, delivery.InvoiceID)
		if err != nil {
			return fmt.Sprintf("Delivered %d invoice(s).", sent), err
		}

		clientID := invoice.ClientID
		entry := &logs.Entry{
			CompanyID: companyID,
			Type:      logs.TypeEmail,
			ClientID:  &clientID,
			Summary:   fmt.Sprintf("Invoice %s delivered by %s", invoiceLabel(invoice), delivery.Method),
			Detail:    fmt.Sprintf("invoice_id=%s delivery_id=%s total=%s %s", invoice.ID, delivery.ID, invoice.Total.StringFixed(2), invoice.Currency),
			Status:    logs.StatusSuccess,
		}
		if err := h.Logs.Record(ctx, entry); err != nil {
			return fmt.Sprintf("Delivered %d invoice(s).", sent), err
		}
		if err := h.InvoiceRepo.MarkDelivered(ctx, delivery.ID, now.UTC()); err != nil {
			return fmt.Sprintf("Delivered %d invoice(s).", sent), err
		}
		sent++
	}

	return fmt.Sprintf("Delivered %d invoice(s).", sent), nil
}

// ApplyCredits applies unapplied payments to open invoices
func (h *SystemTaskHandlers) ApplyCredits(ctx context.Context, companyID string, now time.Time) (string, error) {
	withCredit, err := h.Transactions.ListWithCredit(ctx, companyID)
	if err != nil {
		return "", err
	}

	applied := 0
	for _, txn := range withCredit {
		before := txn.Unapplied()
		updated, err := h.Transactions.AutoApply(ctx, companyID, txn.ID)
		if err != nil {
			h.Logger.Warn("Failed to apply credit of transaction ", txn.ID, ": ", err)
			continue
		}
		if updated.Unapplied().LessThan(before) {
			applied++
		}
	}

	return fmt.Sprintf("Applied credit from %d of %d transaction(s).", applied, len(withCredit)), nil
}

// CardExpirationReminders reminds clients whose cards expire this month. It
// only sends on the first day of the month.
func (h *SystemTaskHandlers) CardExpirationReminders(ctx context.Context, companyID string, now time.Time) (string, error) {
	enabled, err := h.Settings.Bool(ctx, companyID, settings.KeyCCExpirationReminder)
	if err != nil {
		return "", err
	}
	if !enabled {
		return "Expiration reminders are disabled.", nil
	}
	if now.Day() != 1 {
		return "Expiration reminders are sent on the first day of the month.", nil
	}

	month := now.Format("200601")
	expiring, err := h.Accounts.ExpiringIn(ctx, companyID, month)
	if err != nil {
		return "", err
	}

	for _, account := range expiring {
		clientID := account.ClientID
		entry := &logs.Entry{
			CompanyID: companyID,
			Type:      logs.TypeEmail,
			ClientID:  &clientID,
			Summary:   fmt.Sprintf("Card ending in %s expires %s/%s", account.LastFour, month[4:], month[:4]),
			Detail:    "account_id=" + account.ID,
			Status:    logs.StatusSuccess,
		}
		if err := h.Logs.Record(ctx, entry); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Sent %d expiration reminder(s).", len(expiring)), nil
}

func invoiceLabel(invoice *invoices.Invoice) string {
	if invoice.IDCode != "" {
		return invoice.IDCode
	}
	return invoice.ID
}
