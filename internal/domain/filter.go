package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// AllGroups is the group selection that disables the group filter.
const AllGroups = "Todos"

// Filter narrows a ledger. Zero values disable each predicate.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	Group   string
	Account string
}

// Validate checks that the date range is well-formed.
func (f Filter) Validate() error {
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidFilter,
			f.Start.Format(time.DateOnly), f.End.Format(time.DateOnly))
	}
	return nil
}

// WithDefaults fills an open date range with the table's min and max dates.
func (f Filter) WithDefaults(t *Table) Filter {
	minDate, maxDate, ok := t.DateRange()
	if !ok {
		return f
	}
	if f.Start == nil {
		f.Start = &minDate
	}
	if f.End == nil {
		f.End = &maxDate
	}
	return f
}

// Apply returns the rows of t matching every predicate, in order:
// date range, group equality, account substring.
func (f Filter) Apply(t *Table) []Row {
	rows := t.Rows
	rows = f.filterDates(rows)
	if t.Schema.HasGroup {
		rows = f.filterGroup(rows)
	}
	return f.filterAccount(rows)
}

// GroupActive reports whether the group predicate narrows anything.
func (f Filter) GroupActive() bool {
	return f.Group != "" && f.Group != AllGroups
}

func (f Filter) filterDates(rows []Row) []Row {
	if f.Start == nil && f.End == nil {
		return rows
	}
	var start, end time.Time
	if f.Start != nil {
		start = TruncateDay(*f.Start)
	}
	if f.End != nil {
		end = TruncateDay(*f.End)
	}
	return keep(rows, func(r Row) bool {
		if f.Start != nil && r.Date.Before(start) {
			return false
		}
		if f.End != nil && r.Date.After(end) {
			return false
		}
		return true
	})
}

func (f Filter) filterGroup(rows []Row) []Row {
	if !f.GroupActive() {
		return rows
	}
	return keep(rows, func(r Row) bool {
		return r.AccountGroup == f.Group
	})
}

func (f Filter) filterAccount(rows []Row) []Row {
	text := strings.TrimSpace(f.Account)
	if text == "" {
		return rows
	}
	fold := cases.Fold()
	needle := fold.String(text)
	return keep(rows, func(r Row) bool {
		return strings.Contains(fold.String(r.AccountName), needle)
	})
}

func keep(rows []Row, pred func(Row) bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterOptions describes the values the filter controls can offer.
type FilterOptions struct {
	MinDate      time.Time `json:"min_date"`
	MaxDate      time.Time `json:"max_date"`
	Groups       []string  `json:"groups"`
	GroupEnabled bool      `json:"group_enabled"`
}

// Options computes filter choices over the unfiltered table.
func Options(t *Table) FilterOptions {
	opts := FilterOptions{GroupEnabled: t.Schema.HasGroup}
	opts.MinDate, opts.MaxDate, _ = t.DateRange()
	if t.Schema.HasGroup {
		opts.Groups = distinctSorted(t.Rows, func(r Row) string { return r.AccountGroup })
	}
	return opts
}
