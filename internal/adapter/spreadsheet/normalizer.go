package spreadsheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// maxSuggestionDistance bounds how far a header may be from an alias to be suggested.
const maxSuggestionDistance = 3

// Columns maps each resolved logical field to its column index.
type Columns map[Field]int

// Has reports whether field was resolved.
func (c Columns) Has(field Field) bool {
	_, ok := c[field]
	return ok
}

// Normalizer resolves header aliases and parses cells into domain rows.
type Normalizer struct {
	aliases map[string]Field
	names   Aliases
}

// NewNormalizer creates a Normalizer from an alias table.
func NewNormalizer(aliases Aliases) *Normalizer {
	n := &Normalizer{
		aliases: make(map[string]Field),
		names:   aliases,
	}
	for _, field := range Fields {
		for _, name := range aliases[field] {
			key := headerKey(name)
			if _, taken := n.aliases[key]; !taken && key != "" {
				n.aliases[key] = field
			}
		}
	}
	return n
}

// Resolve maps headers to logical fields. The leftmost matching header wins.
func (n *Normalizer) Resolve(headers []string) Columns {
	cols := make(Columns)
	for i, h := range headers {
		field, ok := n.aliases[headerKey(h)]
		if !ok || cols.Has(field) {
			continue
		}
		cols[field] = i
	}
	return cols
}

// Normalize converts a raw sheet into a ledger table.
//
// Rows whose date cannot be parsed are dropped and counted. Amounts that
// cannot be parsed are kept as missing. The call fails when a required
// column is absent or when no row has a parseable date or amount.
func (n *Normalizer) Normalize(sheet *RawSheet) (*domain.Table, error) {
	cols := n.Resolve(sheet.Headers)
	if err := n.checkRequired(cols, sheet.Headers); err != nil {
		return nil, err
	}

	table := &domain.Table{
		Schema: domain.Schema{
			HasGroup:       cols.Has(FieldAccountGroup),
			HasCode:        cols.Has(FieldAccountCode),
			HasType:        cols.Has(FieldType),
			HasDescription: cols.Has(FieldDescription),
		},
	}

	get := func(rec []string, f Field) string {
		idx, ok := cols[f]
		if !ok {
			return ""
		}
		return cell(rec, idx)
	}

	dataRows, amounts := 0, 0
	for i, rec := range sheet.Rows {
		if blank(rec) {
			continue
		}
		dataRows++

		date, ok := parseDate(get(rec, FieldDate))
		if !ok {
			table.Dropped++
			continue
		}

		row := domain.Row{
			Date:         date,
			Month:        domain.MonthKey(date),
			AccountName:  get(rec, FieldAccountName),
			AccountGroup: get(rec, FieldAccountGroup),
			AccountCode:  normalizeCode(get(rec, FieldAccountCode)),
			Description:  get(rec, FieldDescription),
			Line:         sheet.HeaderLine + i + 1,
		}
		if amount, ok := parseAmount(get(rec, FieldAmount)); ok {
			amount = applyKind(amount, parseKind(get(rec, FieldType)))
			row.Amount = decimal.NewNullDecimal(amount)
			amounts++
		}
		table.Rows = append(table.Rows, row)
	}

	switch {
	case dataRows == 0:
		return nil, domain.ErrEmptySheet
	case len(table.Rows) == 0:
		return nil, fmt.Errorf("%w: no value in column %q is a valid date",
			domain.ErrUnparseableColumn, sheet.Headers[cols[FieldDate]])
	case amounts == 0:
		return nil, fmt.Errorf("%w: no value in column %q is a valid amount",
			domain.ErrUnparseableColumn, sheet.Headers[cols[FieldAmount]])
	}

	return table, nil
}

// NormalizeChart reads a chart of accounts (code and name columns).
func (n *Normalizer) NormalizeChart(sheet *RawSheet) (*domain.ChartOfAccounts, error) {
	cols := n.Resolve(sheet.Headers)

	var missing []Field
	for _, f := range []Field{FieldAccountCode, FieldAccountName} {
		if !cols.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, n.schemaError(missing, sheet.Headers)
	}

	chart := domain.NewChartOfAccounts()
	for _, rec := range sheet.Rows {
		chart.Add(normalizeCode(cell(rec, cols[FieldAccountCode])), cell(rec, cols[FieldAccountName]))
	}
	if chart.Len() == 0 {
		return nil, domain.ErrEmptyChartAccounts
	}
	return chart, nil
}

func (n *Normalizer) checkRequired(cols Columns, headers []string) error {
	var missing []Field
	for _, f := range []Field{FieldDate, FieldAmount} {
		if !cols.Has(f) {
			missing = append(missing, f)
		}
	}
	if !cols.Has(FieldAccountName) && !cols.Has(FieldAccountCode) {
		missing = append(missing, FieldAccountName)
	}
	if len(missing) == 0 {
		return nil
	}
	return n.schemaError(missing, headers)
}

// schemaError names the missing fields and, where possible, the headers
// that look closest to one of their aliases.
func (n *Normalizer) schemaError(missing []Field, headers []string) error {
	parts := make([]string, 0, len(missing))
	for _, f := range missing {
		part := string(f)
		if s := n.suggest(f, headers); len(s) > 0 {
			part += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
		}
		parts = append(parts, part)
	}
	return fmt.Errorf("%w: %s", domain.ErrSchema, strings.Join(parts, "; "))
}

func (n *Normalizer) suggest(field Field, headers []string) []string {
	best := make(map[string]int)
	for _, alias := range n.names[field] {
		key := headerKey(alias)
		for _, h := range headers {
			hk := headerKey(h)
			if hk == "" {
				continue
			}
			d := fuzzy.LevenshteinDistance(key, hk)
			if fuzzy.Match(key, hk) {
				d = 0
			}
			if d > maxSuggestionDistance {
				continue
			}
			if prev, ok := best[h]; !ok || d < prev {
				best[h] = d
			}
		}
	}

	names := make([]string, 0, len(best))
	for h := range best {
		names = append(names, h)
	}
	sort.Slice(names, func(i, j int) bool {
		if best[names[i]] != best[names[j]] {
			return best[names[i]] < best[names[j]]
		}
		return names[i] < names[j]
	})

	out := make([]string, len(names))
	for i, h := range names {
		out[i] = strconv.Quote(h)
	}
	return out
}
