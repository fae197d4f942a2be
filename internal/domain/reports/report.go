// Package reports describes tabular reports generated on demand.
package reports

import (
	"context"
	"errors"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
)

// Output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnknownReport is returned for an unregistered report key.
var ErrUnknownReport = errors.New("unknown report")

// Params bound a report run.
type Params struct {
	Start  time.Time
	End    time.Time
	Status string `validate:"omitempty,oneof=draft active void"`
	// Now anchors age calculations. Zero means the current time.
	Now time.Time
}

// Validate checks the date range.
func (p *Params) Validate() error {
	errs := validation.Errors{}
	if err := validation.Struct(p); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		errs.Add("End", "must not be before start")
	}
	return errs.Err()
}

// Result is a rendered table.
type Result struct {
	Key     string
	Name    string
	Columns []string
	Rows    [][]string
}

// Info describes a registered report.
type Info struct {
	Key  string
	Name string
}

// Report generates one kind of table.
type Report interface {
	Key() string
	Name() string
	Generate(ctx context.Context, companyID string, params Params) (*Result, error)
}

// Service dispatches report requests by key.
type Service interface {
	List() []Info
	Generate(ctx context.Context, companyID, key string, params Params) (*Result, error)
}
