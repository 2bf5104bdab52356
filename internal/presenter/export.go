package presenter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/ledgerdash/internal/domain"
)

// ExportFormat is a pivot download format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

const (
	accountHeader = "Conta Contábil"
	totalHeader   = "Total"
	exportSheet   = "Pivot"
)

// ParseExportFormat validates a requested format. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("%w: export format %q", domain.ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension of the format, with the dot.
func (f ExportFormat) Extension() string {
	return "." + string(f)
}

// pivotRecords lays out the pivot as text records: header, accounts, grand total.
func pivotRecords(p *domain.Pivot) [][]string {
	header := append([]string{accountHeader}, p.Months...)
	header = append(header, totalHeader)

	records := [][]string{header}
	add := func(r domain.PivotRow) {
		rec := make([]string, 0, len(r.Values)+2)
		rec = append(rec, r.Account)
		for _, v := range r.Values {
			rec = append(rec, v.String())
		}
		rec = append(rec, r.Total.String())
		records = append(records, rec)
	}
	for _, r := range p.Rows {
		add(r)
	}
	if p.GrandTotal != nil {
		add(*p.GrandTotal)
	}
	return records
}

// WritePivot writes p to w in the given format.
func WritePivot(w io.Writer, p *domain.Pivot, format ExportFormat) error {
	switch format {
	case ExportCSV:
		return writePivotCSV(w, p)
	case ExportXLSX:
		return writePivotXLSX(w, p)
	default:
		return fmt.Errorf("%w: export format %q", domain.ErrUnsupportedFormat, format)
	}
}

func writePivotCSV(w io.Writer, p *domain.Pivot) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(pivotRecords(p)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writePivotXLSX(w io.Writer, p *domain.Pivot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	for i, rec := range pivotRecords(p) {
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = v
			if i > 0 && j > 0 {
				// Amounts are written as numbers so spreadsheets can sum them.
				cells[j] = decimal.RequireFromString(v).InexactFloat64()
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, axis, &cells); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(p.Months)+2, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// ParseExport reads a file produced by WritePivot back into a pivot.
// A trailing grand-total row is recognised by its label.
func ParseExport(data []byte, format ExportFormat) (*domain.Pivot, error) {
	var records [][]string
	switch format {
	case ExportCSV:
		var err error
		records, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
	case ExportXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read xlsx: %w", err)
		}
		defer f.Close()
		records, err = f.GetRows(exportSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedFormat, format)
	}

	if len(records) == 0 || len(records[0]) < 2 {
		return nil, domain.ErrEmptySheet
	}
	header := records[0]
	p := &domain.Pivot{Months: append([]string(nil), header[1:len(header)-1]...)}

	for n, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", n+2, len(header), len(rec))
		}
		row := domain.PivotRow{Account: rec[0]}
		for _, v := range rec[1 : len(rec)-1] {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+2, err)
			}
			row.Values = append(row.Values, d)
		}
		total, err := decimal.NewFromString(rec[len(rec)-1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		row.Total = total

		if row.Account == domain.GrandTotalLabel && n == len(records)-2 {
			p.GrandTotal = &row
			continue
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}
