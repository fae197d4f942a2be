package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Known setting keys
const (
	KeyTimezone             = "timezone"
	KeyLanguage             = "language"
	KeyDateFormat           = "date_format"
	KeyDatetimeFormat       = "datetime_format"
	KeyDefaultCurrency      = "default_currency"
	KeyResultsPerPage       = "results_per_page"
	KeyLogDays              = "log_days"
	KeyInvoiceFormat        = "inv_format"
	KeyInvoiceStart         = "inv_start"
	KeyInvoicePadSize       = "inv_pad_size"
	KeyInvoicePadStr        = "inv_pad_str"
	KeyInvoiceDaysBeforeDue = "inv_days_before_due"
	KeyTaxRate              = "tax_rate"
	KeyCronKey              = "cron_key"
	KeyCCExpirationReminder = "cc_expiration_reminder"
	KeyClientPortalWelcome  = "client_portal_welcome"
	KeyAdminThemeID         = "admin_theme_id"
	KeyClientThemeID        = "client_theme_id"
)

// InvoiceNumberPlaceholder is replaced by the padded invoice number in inv_format.
const InvoiceNumberPlaceholder = "{num}"

// Definition describes a known key: its default and how to check a value.
// Sanitize, when set, rewrites the value before it is stored.
type Definition struct {
	Default  string
	Check    func(value string) error
	Sanitize func(value string) string
}

// Definitions lists every key a company may store.
var Definitions = map[string]Definition{
	KeyTimezone:             {Default: "UTC", Check: checkTimezone},
	KeyLanguage:             {Default: "en-us", Check: checkLanguage},
	KeyDateFormat:           {Default: "2006-01-02", Check: checkLayout},
	KeyDatetimeFormat:       {Default: "2006-01-02 15:04", Check: checkLayout},
	KeyDefaultCurrency:      {Default: "USD", Check: checkCurrency},
	KeyResultsPerPage:       {Default: "20", Check: checkIntRange(1, 100)},
	KeyLogDays:              {Default: "90", Check: checkIntRange(1, 3650)},
	KeyInvoiceFormat:        {Default: InvoiceNumberPlaceholder, Check: checkInvoiceFormat},
	KeyInvoiceStart:         {Default: "1", Check: checkIntRange(1, 1<<31-1)},
	KeyInvoicePadSize:       {Default: "0", Check: checkIntRange(0, 20)},
	KeyInvoicePadStr:        {Default: "0", Check: checkSingleChar},
	KeyInvoiceDaysBeforeDue: {Default: "7", Check: checkIntRange(0, 365)},
	KeyTaxRate:              {Default: "0", Check: checkDecimalRange(decimal.Zero, decimal.NewFromInt(100))},
	KeyCronKey:              {Default: "", Check: checkCronKey},
	KeyCCExpirationReminder: {Default: "true", Check: checkBool},
	KeyClientPortalWelcome:  {Default: "", Check: checkMaxLen(10000), Sanitize: sanitizeHTML},
	KeyAdminThemeID:         {Default: "", Check: checkOptionalUUID},
	KeyClientThemeID:        {Default: "", Check: checkOptionalUUID},
}

// CheckValue validates value for key.
func CheckValue(key, value string) error {
	def, ok := Definitions[key]
	if !ok {
		return ErrUnknownKey
	}
	if def.Check == nil {
		return nil
	}
	return def.Check(value)
}

// Normalize checks value for key and returns it as it should be stored.
func Normalize(key, value string) (string, error) {
	if err := CheckValue(key, value); err != nil {
		return "", err
	}
	if sanitize := Definitions[key].Sanitize; sanitize != nil {
		return sanitize(value), nil
	}
	return value, nil
}

// Defaults returns a fresh copy of every default value.
func Defaults() map[string]string {
	out := make(map[string]string, len(Definitions))
	for key, def := range Definitions {
		out[key] = def.Default
	}
	return out
}

func checkTimezone(value string) error {
	if _, err := time.LoadLocation(value); err != nil {
		return fmt.Errorf("must be an IANA time zone")
	}
	return nil
}

func checkLanguage(value string) error {
	if _, err := language.Parse(value); err != nil {
		return fmt.Errorf("must be a BCP-47 language tag")
	}
	return nil
}

func checkLayout(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("is required")
	}
	reference := time.Date(2009, time.November, 17, 13, 45, 30, 0, time.UTC)
	if reference.Format(value) == value {
		return fmt.Errorf("must contain at least one date element")
	}
	return nil
}

func checkCurrency(value string) error {
	if err := validation.Validator().Var(value, "required,iso4217"); err != nil {
		return fmt.Errorf("must be an ISO-4217 currency code")
	}
	return nil
}

func checkIntRange(lo, hi int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("must be a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func checkDecimalRange(lo, hi decimal.Decimal) func(string) error {
	return func(value string) error {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return fmt.Errorf("must be between %s and %s", lo, hi)
		}
		return nil
	}
}

func checkInvoiceFormat(value string) error {
	if !strings.Contains(value, InvoiceNumberPlaceholder) {
		return fmt.Errorf("must contain %s", InvoiceNumberPlaceholder)
	}
	if len(value) > 64 {
		return fmt.Errorf("must be at most 64 characters")
	}
	return nil
}

func checkSingleChar(value string) error {
	if len([]rune(value)) != 1 {
		return fmt.Errorf("must be a single character")
	}
	return nil
}

func checkCronKey(value string) error {
	if value != "" && len(value) < 16 {
		return fmt.Errorf("must be empty or at least 16 characters")
	}
	return nil
}

func checkBool(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func checkMaxLen(n int) func(string) error {
	return func(value string) error {
		if len(value) > n {
			return fmt.Errorf("must be at most %d characters", n)
		}
		return nil
	}
}

func checkOptionalUUID(value string) error {
	if value == "" {
		return nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("must be a valid identifier")
	}
	return nil
}

var welcomePolicy = bluemonday.UGCPolicy()

// sanitizeHTML keeps user generated markup and drops scripts and handlers
func sanitizeHTML(value string) string {
	return welcomePolicy.Sanitize(value)
}
