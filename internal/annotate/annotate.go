// Package annotate derives the computed fields of a record from its raw
// fields. It has no I/O; the store calls it inside the write transaction.
package annotate

import (
	"errors"
	"fmt"

	"github.com/conciliador-dev/conciliador/internal/classify"
	"github.com/conciliador-dev/conciliador/internal/fees"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/settle"
)

var (
	ErrMissingReport = errors.New("shift report not found")
	ErrMissingRates  = errors.New("fee table not loaded")
)

// DerivationError reports a record whose derived fields could not be computed.
type DerivationError struct {
	Record string
	Err    error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("annotating %s: %v", e.Record, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

// Context carries the collaborators of one write transaction.
type Context struct {
	Rules  *classify.Set
	Settle *settle.Calculator
	Fees   *fees.Table
}

// Finisher returns f with Category, SettlementDate and NetValue set.
// report must be the shift report f references.
func (c Context) Finisher(f model.Finisher, report *model.ShiftReport) (model.Finisher, error) {
	if report == nil || (f.ReportID != 0 && report.ID != 0 && f.ReportID != report.ID) {
		return f, &DerivationError{Record: finisherName(f), Err: ErrMissingReport}
	}
	if c.Fees == nil {
		return f, &DerivationError{Record: finisherName(f), Err: ErrMissingRates}
	}

	m := c.Rules.Finisher.Match(f.Name, f.Value)
	f.Category = m.Category

	event := report.EventDate()
	f.SettlementDate = nil
	if m.SettlementDays != nil {
		d := c.Settle.SettleAfter(m.Category, event, report.Shift, *m.SettlementDays)
		f.SettlementDate = &d
	} else if d, ok := c.Settle.Settle(m.Category, event, report.Shift); ok {
		f.SettlementDate = &d
	}

	f.NetValue = c.Fees.NetAmount(f.Category, f.Value, report.StartTime)
	return f, nil
}

// StatementEntry returns e with Category set. Statement entries already
// carry their bank-posting date and net amount.
func (c Context) StatementEntry(e model.StatementEntry) model.StatementEntry {
	e.Category = c.Rules.Statement.Classify(e.Name, e.Value)
	return e
}

func finisherName(f model.Finisher) string {
	return fmt.Sprintf("finisher %q of report %d", f.Name, f.ReportID)
}
