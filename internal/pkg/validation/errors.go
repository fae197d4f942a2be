// Package validation turns validator/v10 failures into per-field messages
// that the REST layer can return to the caller.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to a human readable problem.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Add records a problem for field, keeping the first message.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Err returns nil when no problem was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// As extracts field errors from err.
func As(err error) (Errors, bool) {
	var fieldErrs Errors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}
	return nil, false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		mustRegister(validate, "yyyymm", validators.YearMonthValidation)
		mustRegister(validate, "clock", validators.ClockValidation)
		mustRegister(validate, "cronspec", validators.CronSpecValidation)
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates s and converts failures into Errors.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation error: %w", err)
	}

	fieldErrs := Errors{}
	for _, fieldErr := range validationErrors {
		fieldErrs.Add(fieldErr.Field(), message(fieldErr))
	}
	return fieldErrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "uuid4":
		return "must be a valid identifier"
	case "hexcolor":
		return "must be a hex color"
	case "iso4217":
		return "must be an ISO-4217 currency code"
	case "yyyymm":
		return "must be a YYYYMM date"
	case "clock":
		return "must be a HH:MM time"
	case "cronspec":
		return "must be a valid cron expression"
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}
