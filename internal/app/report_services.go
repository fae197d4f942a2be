package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/invoices"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/shopspring/decimal"
)

// reportService implements the reports.Service interface
type reportService struct {
	reports map[string]reports.Report
	logger  logger.Logger
}

// NewReportService creates a reports.Service dispatching to reports by key
func NewReportService(logger logger.Logger, registered ...reports.Report) (reports.Service, error) {
	byKey := make(map[string]reports.Report, len(registered))
	for _, r := range registered {
		if _, dup := byKey[r.Key()]; dup {
			return nil, fmt.Errorf("duplicate report %s", r.Key())
		}
		byKey[r.Key()] = r
	}
	return &reportService{reports: byKey, logger: logger}, nil
}

func (s *reportService) List() []reports.Info {
	list := make([]reports.Info, 0, len(s.reports))
	for _, r := range s.reports {
		list = append(list, reports.Info{Key: r.Key(), Name: r.Name()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

func (s *reportService) Generate(ctx context.Context, companyID, key string, params reports.Params) (*reports.Result, error) {
	report, ok := s.reports[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, reports.ErrUnknownReport)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Now.IsZero() {
		params.Now = time.Now().UTC()
	}
	if params.End.IsZero() {
		params.End = params.Now
	}
	if params.Start.IsZero() {
		params.Start = time.Date(params.End.Year(), params.End.Month(), 1, 0, 0, 0, 0, params.End.Location())
	}

	result, err := report.Generate(ctx, companyID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report %s: %w", key, err)
	}
	s.logger.Info("Generated report ", key, " for company ", companyID)
	result.Key = report.Key()
	result.Name = report.Name()
	return result, nil
}

// invoiceCreationReport lists invoices billed in the requested range
type invoiceCreationReport struct {
	invoiceRepo invoices.Repository
	clientRepo  clients.Repository
	settings    settings.Service
}

// NewInvoiceCreationReport creates the invoice_creation report
func NewInvoiceCreationReport(invoiceRepo invoices.Repository, clientRepo clients.Repository, settingService settings.Service) reports.Report {
	return &invoiceCreationReport{invoiceRepo: invoiceRepo, clientRepo: clientRepo, settings: settingService}
}

func (r *invoiceCreationReport) Key() string  { return "invoice_creation" }
func (r *invoiceCreationReport) Name() string { return "Invoice Creation" }

func (r *invoiceCreationReport) Generate(ctx context.Context, companyID string, params reports.Params) (*reports.Result, error) {
	layout, err := r.settings.Get(ctx, companyID, settings.KeyDateFormat)
	if err != nil {
		return nil, err
	}

	list, err := r.invoiceRepo.ListBilledBetween(ctx, companyID, params.Start.UTC(), params.End.UTC(), params.Status)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	result := &reports.Result{
		Columns: []string{"invoice", "client", "status", "date_billed", "date_due", "subtotal", "tax", "total", "paid", "currency"},
		Rows:    make([][]string, 0, len(list)),
	}
	for _, inv := range list {
		name, ok := names[inv.ClientID]
		if !ok {
			client, err := r.clientRepo.GetByID(ctx, companyID, inv.ClientID)
			if err != nil {
				return nil, err
			}
			name = client.FullName()
			names[inv.ClientID] = name
		}

		result.Rows = append(result.Rows, []string{
			invoiceLabel(inv),
			name,
			inv.Status,
			inv.DateBilled.Format(layout),
			inv.DateDue.Format(layout),
			inv.Subtotal.StringFixed(2),
			inv.Tax.StringFixed(2),
			inv.Total.StringFixed(2),
			inv.Paid.StringFixed(2),
			inv.Currency,
		})
	}
	return result, nil
}

// agingBuckets are the upper bounds in days past due of each aging column
var agingBuckets = []struct {
	label   string
	maxDays int
}{
	{"current", 0},
	{"1-30", 30},
	{"31-60", 60},
	{"61-90", 90},
	{"90+", -1},
}

// agingInvoicesReport buckets open invoices by days past due per currency
type agingInvoicesReport struct {
	invoiceRepo invoices.Repository
}

// NewAgingInvoicesReport creates the aging_invoices report
func NewAgingInvoicesReport(invoiceRepo invoices.Repository) reports.Report {
	return &agingInvoicesReport{invoiceRepo: invoiceRepo}
}

func (r *agingInvoicesReport) Key() string  { return "aging_invoices" }
func (r *agingInvoicesReport) Name() string { return "Aging Invoices" }

func (r *agingInvoicesReport) Generate(ctx context.Context, companyID string, params reports.Params) (*reports.Result, error) {
	open, err := r.invoiceRepo.ListOpen(ctx, companyID)
	if err != nil {
		return nil, err
	}

	totals := map[string][]decimal.Decimal{}
	counts := map[string]int{}
	for _, inv := range open {
		row, ok := totals[inv.Currency]
		if !ok {
			row = make([]decimal.Decimal, len(agingBuckets))
			totals[inv.Currency] = row
		}
		bucket := agingBucket(DaysPastDue(inv.DateDue, params.Now))
		row[bucket] = row[bucket].Add(inv.Due())
		counts[inv.Currency]++
	}

	columns := []string{"currency", "invoices"}
	for _, b := range agingBuckets {
		columns = append(columns, b.label)
	}
	columns = append(columns, "total")

	result := &reports.Result{Columns: columns, Rows: [][]string{}}
	for _, currency := range sortedKeys(totals) {
		row := []string{currency, strconv.Itoa(counts[currency])}
		sum := decimal.Zero
		for _, amount := range totals[currency] {
			row = append(row, amount.StringFixed(2))
			sum = sum.Add(amount)
		}
		row = append(row, sum.StringFixed(2))
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// DaysPastDue counts whole days between due and now. Not yet due gives 0.
func DaysPastDue(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

func agingBucket(days int) int {
	for i, b := range agingBuckets {
		if b.maxDays < 0 || days <= b.maxDays {
			return i
		}
	}
	return len(agingBuckets) - 1
}

// taxLiabilityReport sums the tax of active invoices billed in range per currency
type taxLiabilityReport struct {
	invoiceRepo invoices.Repository
}

// NewTaxLiabilityReport creates the tax_liability report
func NewTaxLiabilityReport(invoiceRepo invoices.Repository) reports.Report {
	return &taxLiabilityReport{invoiceRepo: invoiceRepo}
}

func (r *taxLiabilityReport) Key() string  { return "tax_liability" }
func (r *taxLiabilityReport) Name() string { return "Tax Liability" }

func (r *taxLiabilityReport) Generate(ctx context.Context, companyID string, params reports.Params) (*reports.Result, error) {
	list, err := r.invoiceRepo.ListBilledBetween(ctx, companyID, params.Start.UTC(), params.End.UTC(), invoices.StatusActive)
	if err != nil {
		return nil, err
	}

	type sums struct {
		count                int
		subtotal, tax, total decimal.Decimal
	}
	byCurrency := map[string]*sums{}
	for _, inv := range list {
		s, ok := byCurrency[inv.Currency]
		if !ok {
			s = &sums{}
			byCurrency[inv.Currency] = s
		}
		s.count++
		s.subtotal = s.subtotal.Add(inv.Subtotal)
		s.tax = s.tax.Add(inv.Tax)
		s.total = s.total.Add(inv.Total)
	}

	result := &reports.Result{
		Columns: []string{"currency", "invoices", "subtotal", "tax", "total"},
		Rows:    [][]string{},
	}
	for _, currency := range sortedKeys(byCurrency) {
		s := byCurrency[currency]
		result.Rows = append(result.Rows, []string{
			currency,
			strconv.Itoa(s.count),
			s.subtotal.StringFixed(2),
			s.tax.StringFixed(2),
			s.total.StringFixed(2),
		})
	}
	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
