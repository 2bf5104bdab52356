// Package presenter turns aggregates into display values, chart series and
// downloadable exports.
package presenter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatBRL renders d with two decimals, '.' thousands and ',' decimal separators.
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if negative && strings.Trim(intPart+frac, "0") != "" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FormatCurrency prefixes FormatBRL with the real sign.
func FormatCurrency(d decimal.Decimal) string {
	return "R$ " + FormatBRL(d)
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
