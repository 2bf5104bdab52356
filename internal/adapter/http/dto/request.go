package dto

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
)

// Query parameter names shared by the read endpoints.
const (
	ParamStart      = "start"
	ParamEnd        = "end"
	ParamGroup      = "group"
	ParamAccount    = "q"
	ParamGrandTotal = "grand_total"
	ParamFormat     = "format"
)

var queryDateLayouts = []string{time.DateOnly, "02/01/2006"}

// ParseFilter reads the filter query parameters of r.
func ParseFilter(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()

	var f domain.Filter
	var err error
	if f.Start, err = parseQueryDate(q.Get(ParamStart)); err != nil {
		return f, fmt.Errorf("%w: start: %v", domain.ErrInvalidFilter, err)
	}
	if f.End, err = parseQueryDate(q.Get(ParamEnd)); err != nil {
		return f, fmt.Errorf("%w: end: %v", domain.ErrInvalidFilter, err)
	}
	f.Group = strings.TrimSpace(q.Get(ParamGroup))
	f.Account = strings.TrimSpace(q.Get(ParamAccount))

	if err := domain.ValidateSearchText(f.Account); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// ParseBool reads a boolean query parameter, falling back to def.
func ParseBool(r *http.Request, key string, def bool) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func parseQueryDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a YYYY-MM-DD or DD/MM/YYYY date", s)
}
