package spreadsheet

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/ledgerdash/internal/domain"
)

// Day-first layouts come before ISO ones so "01/02/2024" is 1 February.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/06",
}

// Excel serial day numbers accepted as dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// parseDate parses a cell as a calendar date with day-before-month precedence.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.TruncateDay(t), true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return domain.TruncateDay(t), true
		}
	}

	return time.Time{}, false
}

// parseAmount parses a monetary cell. Brazilian notation ("1.234,56") is
// recognised by the presence of a comma; several dots without a comma are
// thousands separators ("1.234.567"). A single dot is a decimal point.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("R$", "", "$", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" || s == "-" {
		return decimal.Decimal{}, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Abs().Neg()
	}
	return d, true
}

type entryKind int

const (
	kindUnknown entryKind = iota
	kindCredit
	kindDebit
)

// parseKind reads a credit/debit flag.
func parseKind(raw string) entryKind {
	switch headerKey(raw) {
	case "c", "cr", "credito", "credit":
		return kindCredit
	case "d", "db", "debito", "debit":
		return kindDebit
	default:
		return kindUnknown
	}
}

// applyKind forces the sign of amount from the flag, keeping its magnitude.
func applyKind(amount decimal.Decimal, kind entryKind) decimal.Decimal {
	switch kind {
	case kindCredit:
		return amount.Abs()
	case kindDebit:
		return amount.Abs().Neg()
	default:
		return amount
	}
}

// normalizeCode renders integer-valued codes without a fractional part,
// so "101", "101.0" and "101,00" all become "101".
func normalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
