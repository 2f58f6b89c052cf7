package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/money"
)

// StatementParser parses bank statement exports: "DD/MM/YYYY;description;amount".
type StatementParser struct{}

const (
	stmtNumFields = 3
	stmtColDate   = 0
	stmtColDesc   = 1
	stmtColAmount = 2
)

// StatementRow is one bank ledger line.
type StatementRow struct {
	Date  time.Time
	Name  string
	Value int64
}

// Kind returns the parser kind.
func (p *StatementParser) Kind() string { return KindStatements }

// Parse reads a statement export and groups its rows by day.
func (p *StatementParser) Parse(name string, r io.Reader) (Batch, error) {
	rows, err := ParseStatementRows(name, r)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Statements: GroupStatements(rows)}, nil
}

// ParseStatementRows returns one row per ledger line, in file order. A first
// row whose date field is not a date is taken as a header and skipped.
func ParseStatementRows(name string, r io.Reader) ([]StatementRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var rows []StatementRow
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var cerr *csv.ParseError
			line := 0
			if errors.As(err, &cerr) {
				line = cerr.Line
			}
			return nil, &ParseError{File: name, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		isFirst := first
		first = false

		if len(rec) < stmtNumFields {
			return nil, &ParseError{File: name, Line: line,
				Err: fmt.Errorf("got %d fields, want %d", len(rec), stmtNumFields)}
		}
		date, err := dates.ParseDay(rec[stmtColDate])
		if err != nil {
			if isFirst {
				continue
			}
			return nil, &ParseError{File: name, Line: line, Err: err}
		}
		v, err := money.Parse(rec[stmtColAmount])
		if err != nil {
			return nil, &ParseError{File: name, Line: line, Err: err}
		}
		rows = append(rows, StatementRow{
			Date:  date,
			Name:  strings.TrimSpace(rec[stmtColDesc]),
			Value: v,
		})
	}
	return rows, nil
}

// GroupStatements groups rows into one Statement per day, days in order of
// first appearance and entries in file order.
func GroupStatements(rows []StatementRow) []model.Statement {
	var out []model.Statement
	index := make(map[time.Time]int)
	for _, r := range rows {
		day := dates.Day(r.Date)
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, model.Statement{Date: day})
		}
		out[i].Entries = append(out[i].Entries, model.StatementEntry{Name: r.Name, Value: r.Value})
	}
	return out
}
