// Package spreadsheet turns uploaded XLSX, XLS and CSV files into normalized ledgers.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/iho/ledgerdash/internal/domain"
)

// RawSheet is the first worksheet of an upload as text cells.
type RawSheet struct {
	Headers []string
	Rows    [][]string
	// HeaderLine is the 1-based source line of the header row.
	HeaderLine int
}

// cell returns the trimmed value of column col in row, or "" when the row is short.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Loader reads spreadsheet bytes into a RawSheet.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses data according to the extension of fileName.
func (l *Loader) Load(fileName string, data []byte) (*RawSheet, error) {
	format, err := domain.FormatFromFileName(fileName)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case domain.FormatXLSX:
		records, err = readXLSX(data)
	case domain.FormatXLS:
		records, err = readXLS(data)
	case domain.FormatCSV:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", format, err)
	}

	return toSheet(records)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptySheet
	}

	// Raw values keep dates as serial numbers and amounts unformatted.
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, domain.ErrEmptySheet
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cols := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		records = append(records, cols)
	}
	return records, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// Brazilian exports are commonly Windows-1252.
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// detectDelimiter picks ';' or tab when the first non-empty line has more
// of them than commas.
func detectDelimiter(data []byte) rune {
	var line []byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	if bytes.Count(line, []byte("\t")) > bytes.Count(line, []byte(",")) {
		return '\t'
	}
	return ','
}

func toSheet(records [][]string) (*RawSheet, error) {
	headerIdx := -1
	for i, rec := range records {
		if !blank(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, domain.ErrEmptySheet
	}

	sheet := &RawSheet{HeaderLine: headerIdx + 1}
	for _, h := range records[headerIdx] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(h))
	}
	sheet.Rows = records[headerIdx+1:]

	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("%w: only a header row was found", domain.ErrEmptySheet)
	}
	return sheet, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
