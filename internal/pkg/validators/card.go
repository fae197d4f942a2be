// Package validators holds custom validator/v10 rules.
package validators

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var (
	yearMonthPattern = regexp.MustCompile(`^\d{4}(0[1-9]|1[0-2])$`)
	clockPattern     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Luhn reports whether number (digits only) passes the mod-10 check.
func Luhn(number string) bool {
	if len(number) < 12 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DigitsOnly strips spaces and dashes from a card or bank number.
func DigitsOnly(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

// YearMonthValidation validates a YYYYMM field.
func YearMonthValidation(fl validator.FieldLevel) bool {
	return yearMonthPattern.MatchString(fl.Field().String())
}

// ClockValidation validates a HH:MM field.
func ClockValidation(fl validator.FieldLevel) bool {
	return clockPattern.MatchString(fl.Field().String())
}

// CronSpecValidation validates a standard five field cron expression.
func CronSpecValidation(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// ExpiredBefore reports whether a YYYYMM expiration lies before the month of now.
func ExpiredBefore(expiration string, now time.Time) bool {
	return expiration < now.Format("200601")
}
