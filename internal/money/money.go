// Package money converts between integer minor-unit amounts and the
// locale-formatted strings used by the report and statement exports.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Format describes the separators of an amount string.
type Format struct {
	Thousands string
	Decimals  string
}

// Brazilian is the "1.234,56" convention used by both input feeds.
var Brazilian = Format{Thousands: ".", Decimals: ","}

// Parse reads a signed amount in the Brazilian format into minor units.
func Parse(s string) (int64, error) {
	return Brazilian.Parse(s)
}

// Parse reads a signed amount into minor units: thousands separators are
// removed, the fractional part is left-padded to two digits and concatenated
// with the integer part.
func (f Format) Parse(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	body := raw
	if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}

	intPart, fracPart, _ := strings.Cut(body, f.Decimals)
	if strings.Contains(fracPart, f.Decimals) {
		return 0, fmt.Errorf("amount %q has more than one decimal separator", s)
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("amount %q has more than 2 decimal places", s)
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("amount %q has no digits", s)
	}
	intPart, ok := f.ungroup(intPart)
	if !ok || (fracPart != "" && !isDigits(fracPart)) {
		return 0, fmt.Errorf("amount %q is not numeric", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	fracPart = strings.Repeat("0", 2-len(fracPart)) + fracPart

	v, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Format renders minor units with the separators of f, e.g. 123456 -> "1.234,56".
func (f Format) Format(v int64) string {
	neg := v < 0
	digits := strconv.FormatInt(v, 10)
	if neg {
		digits = digits[1:]
	}
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}

	intPart, fracPart := digits[:len(digits)-2], digits[len(digits)-2:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.Thousands)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.Decimals)
	b.WriteString(fracPart)
	return b.String()
}

// Currency formats amounts with a currency symbol, e.g. "R$ 1.234,56".
type Currency struct {
	Symbol string
	Format Format
}

// Real is the Brazilian real.
var Real = Currency{Symbol: "R$", Format: Brazilian}

// String renders v with the currency symbol.
func (c Currency) String(v int64) string {
	if c.Symbol == "" {
		return c.Format.Format(v)
	}
	return c.Symbol + " " + c.Format.Format(v)
}

// ungroup removes thousands separators from an integer part. Groups after
// the first must hold exactly three digits. An empty part is valid.
func (f Format) ungroup(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	if f.Thousands == "" || !strings.Contains(s, f.Thousands) {
		return s, isDigits(s)
	}
	groups := strings.Split(s, f.Thousands)
	if len(groups[0]) > 3 {
		return "", false
	}
	for i, g := range groups {
		if !isDigits(g) || (i > 0 && len(g) != 3) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
