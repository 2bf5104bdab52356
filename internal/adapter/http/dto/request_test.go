package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantStart *time.Time
		wantEnd   *time.Time
		wantGroup string
		wantQ     string
		wantErr   error
	}{
		{
			name: "empty query",
		},
		{
			name:      "iso dates and text",
			query:     "start=2024-01-01&end=2024-03-31&group=Custos&q=receita",
			wantStart: ptrDate(2024, 1, 1),
			wantEnd:   ptrDate(2024, 3, 31),
			wantGroup: "Custos",
			wantQ:     "receita",
		},
		{
			name:      "brazilian dates",
			query:     "start=01/02/2024",
			wantStart: ptrDate(2024, 2, 1),
		},
		{
			name:    "start after end",
			query:   "start=2024-03-01&end=2024-02-01",
			wantErr: domain.ErrInvalidFilter,
		},
		{
			name:    "bad date",
			query:   "end=yesterday",
			wantErr: domain.ErrInvalidFilter,
		},
		{
			name:    "search text too long",
			query:   "q=" + strings.Repeat("a", domain.MaxSearchTextLength+1),
			wantErr: domain.ErrInvalidFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?"+tt.query, nil)

			f, err := ParseFilter(req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !sameDate(f.Start, tt.wantStart) || !sameDate(f.End, tt.wantEnd) {
				t.Fatalf("unexpected range %v..%v", f.Start, f.End)
			}
			if f.Group != tt.wantGroup || f.Account != tt.wantQ {
				t.Fatalf("unexpected filter %+v", f)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?grand_total=true&bad=maybe", nil)

	if !ParseBool(req, ParamGrandTotal, false) {
		t.Fatalf("expected true")
	}
	if !ParseBool(req, "bad", true) {
		t.Fatalf("expected default for unparseable value")
	}
	if ParseBool(req, "missing", false) {
		t.Fatalf("expected default for missing value")
	}
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
