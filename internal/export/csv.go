// Package export writes verification buckets as CSV for review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/money"
)

// Header is the CSV header of a verification export.
const Header = "date,category,finisher_total,statement_total,difference,matched,is_verified,verified_on"

const (
	numFields     = 8
	colDate       = 0
	colCategory   = 1
	colFinishers  = 2
	colStatement  = 3
	colDifference = 4
	colMatched    = 5
	colIsVerified = 6
	colVerifiedOn = 7
)

// Options controls rendering.
type Options struct {
	Currency money.Currency
	// OnlyMismatched drops buckets whose totals agree.
	OnlyMismatched bool
}

// WriteVerifications writes rows (including header) and returns how many
// buckets were written.
func WriteVerifications(w io.Writer, rows []model.Verification, opts Options) (int, error) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	n := 0
	for _, v := range rows {
		if opts.OnlyMismatched && v.Matched() {
			continue
		}
		if err := cw.Write(MarshalVerification(v, opts.Currency)); err != nil {
			return n, fmt.Errorf("writing row %d: %w", n+2, err)
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}

// MarshalVerification converts a bucket to a CSV row.
func MarshalVerification(v model.Verification, cur money.Currency) []string {
	row := make([]string, numFields)
	row[colDate] = v.Date.Format(dates.ISOFormat)
	row[colCategory] = string(v.Category)
	row[colFinishers] = cur.String(v.FinisherTotal)
	row[colStatement] = cur.String(v.StatementTotal)
	row[colDifference] = cur.String(v.Difference())
	row[colMatched] = strconv.FormatBool(v.Matched())
	row[colIsVerified] = strconv.FormatBool(v.IsVerified)
	row[colVerifiedOn] = v.VerifiedOn.Format(time.RFC3339)
	return row
}

// Summary is the per-category total over an export.
type Summary struct {
	Category       model.Category
	Buckets        int
	Mismatched     int
	FinisherTotal  int64
	StatementTotal int64
}

// Summarize totals rows per category, in first-seen order.
func Summarize(rows []model.Verification) []Summary {
	var out []Summary
	index := make(map[model.Category]int)
	for _, v := range rows {
		i, ok := index[v.Category]
		if !ok {
			i = len(out)
			index[v.Category] = i
			out = append(out, Summary{Category: v.Category})
		}
		s := &out[i]
		s.Buckets++
		if !v.Matched() {
			s.Mismatched++
		}
		s.FinisherTotal += v.FinisherTotal
		s.StatementTotal += v.StatementTotal
	}
	return out
}
