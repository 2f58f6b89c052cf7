package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/conciliador-dev/conciliador/internal/dates"
	"github.com/conciliador-dev/conciliador/internal/model"
	"github.com/conciliador-dev/conciliador/internal/money"
)

// ReportParser parses point-of-sale shift-close reports.
//
// A report is semicolon separated: a 5-line preamble, then one section per
// shift, then a 3-line footer. A section starts with a row whose first field
// is set (the shift info row) followed by a column-header row, the payment
// rows and a total row, all with an empty first field.
type ReportParser struct{}

const (
	reportHeaderLines = 5
	reportFooterLines = 3
	minSectionRows    = 3

	infoColEmployee = 0
	infoColStart    = 3
	infoColEnd      = 4

	payColName     = 1
	payColTotal    = 4
	payColInformed = 5

	// The cash row's total is the system figure; the informed column holds
	// what was counted in the drawer.
	cashFinisher = "RECEBIMENTO DINHEIRO"

	headerName = "FINALIZADORA"
	totalName  = "TOTAL"
)

// ReportRow is one payment row with its section's shift info.
type ReportRow struct {
	Shift    int
	Employee string
	Start    time.Time
	End      time.Time
	Name     string
	Amount   string
	Value    int64
}

// Kind returns the parser kind.
func (p *ReportParser) Kind() string { return KindReports }

// Parse reads a report and returns one ShiftReport per section.
func (p *ReportParser) Parse(name string, r io.Reader) (Batch, error) {
	reports, err := ParseReports(name, r)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Reports: reports}, nil
}

type line struct {
	num    int
	fields []string
}

type section struct {
	employee   string
	start, end time.Time
	rows       []line
}

// ParseReports parses a report into shift reports ordered by start time,
// with Shift set to that position.
func ParseReports(name string, r io.Reader) ([]model.ShiftReport, error) {
	sections, err := parseSections(name, r)
	if err != nil {
		return nil, err
	}

	reports := make([]model.ShiftReport, 0, len(sections))
	for i, s := range sections {
		report := model.ShiftReport{
			Shift:     i,
			Employee:  s.employee,
			StartTime: s.start,
			EndTime:   s.end,
		}
		for _, l := range s.rows {
			fname, amount, err := paymentFields(l.fields)
			if err != nil {
				return nil, &ParseError{File: name, Line: l.num, Err: err}
			}
			v, err := money.Parse(amount)
			if err != nil {
				return nil, &ParseError{File: name, Line: l.num, Err: err}
			}
			report.Finishers = append(report.Finishers, model.Finisher{Name: fname, Value: v})
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ReportRows flattens reports to one row per payment, in report order.
func ReportRows(reports []model.ShiftReport) []ReportRow {
	var rows []ReportRow
	for _, rep := range reports {
		for _, f := range rep.Finishers {
			rows = append(rows, ReportRow{
				Shift:    rep.Shift,
				Employee: rep.Employee,
				Start:    rep.StartTime,
				End:      rep.EndTime,
				Name:     f.Name,
				Amount:   money.Brazilian.Format(f.Value),
				Value:    f.Value,
			})
		}
	}
	return rows
}

func parseSections(name string, r io.Reader) ([]section, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}
	if len(lines) < reportHeaderLines+reportFooterLines {
		return nil, &ParseError{File: name, Err: errors.New("report too short")}
	}
	body := lines[reportHeaderLines : len(lines)-reportFooterLines]

	var raw [][]line
	for i, text := range body {
		text = strings.TrimRight(text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		l := line{num: reportHeaderLines + i + 1, fields: strings.Split(text, ";")}
		if strings.TrimSpace(l.fields[0]) != "" {
			raw = append(raw, []line{l})
			continue
		}
		if len(raw) == 0 {
			return nil, &ParseError{File: name, Line: l.num, Err: errors.New("payment row before any shift")}
		}
		raw[len(raw)-1] = append(raw[len(raw)-1], l)
	}
	if len(raw) == 0 {
		return nil, &ParseError{File: name, Err: errors.New("no shift sections")}
	}

	sections := make([]section, 0, len(raw))
	for _, rows := range raw {
		info := rows[0]
		if len(rows) < minSectionRows {
			return nil, &ParseError{File: name, Line: info.num,
				Err: fmt.Errorf("section has %d rows, want at least %d", len(rows), minSectionRows)}
		}
		if len(info.fields) <= infoColEnd {
			return nil, &ParseError{File: name, Line: info.num, Err: errors.New("shift info row has too few fields")}
		}
		if err := expectName(rows[1], headerName); err != nil {
			return nil, &ParseError{File: name, Line: rows[1].num, Err: fmt.Errorf("column header row: %w", err)}
		}
		last := rows[len(rows)-1]
		if err := expectName(last, totalName); err != nil {
			return nil, &ParseError{File: name, Line: last.num, Err: fmt.Errorf("total row: %w", err)}
		}
		start, err := dates.ParseTimestamp(info.fields[infoColStart])
		if err != nil {
			return nil, &ParseError{File: name, Line: info.num, Err: err}
		}
		end, err := dates.ParseTimestamp(info.fields[infoColEnd])
		if err != nil {
			return nil, &ParseError{File: name, Line: info.num, Err: err}
		}
		sections = append(sections, section{
			employee: strings.TrimSpace(info.fields[infoColEmployee]),
			start:    start,
			end:      end,
			// Drop the column-header row and the total row.
			rows: rows[2 : len(rows)-1],
		})
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].start.Before(sections[j].start)
	})
	return sections, nil
}

// expectName checks the name column of a section's fixed rows.
func expectName(l line, want string) error {
	if len(l.fields) <= payColName {
		return fmt.Errorf("want %q, row has too few fields", want)
	}
	if got := strings.TrimSpace(l.fields[payColName]); !strings.EqualFold(got, want) {
		return fmt.Errorf("want %q, got %q", want, got)
	}
	return nil
}

func paymentFields(fields []string) (name, amount string, err error) {
	if len(fields) <= payColTotal {
		return "", "", errors.New("payment row has too few fields")
	}
	name = strings.TrimSpace(fields[payColName])
	if name == "" {
		return "", "", errors.New("payment row without a name")
	}
	if name == cashFinisher {
		if len(fields) <= payColInformed {
			return "", "", errors.New("cash row without informed amount")
		}
		return name, fields[payColInformed], nil
	}
	return name, fields[payColTotal], nil
}
