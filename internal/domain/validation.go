package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MaxSearchTextLength = 200
	MaxFileNameLength   = 255
	MaxPageSize         = 1000
	DefaultPageSize     = 100
)

// FileFormat identifies an uploadable spreadsheet format.
type FileFormat string

const (
	FormatXLSX FileFormat = "xlsx"
	FormatXLS  FileFormat = "xls"
	FormatCSV  FileFormat = "csv"
)

var supportedFormats = map[string]FileFormat{
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
	".txt":  FormatCSV,
}

// FormatFromFileName resolves the spreadsheet format from a file extension.
func FormatFromFileName(name string) (FileFormat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: file name is empty", ErrUnsupportedFormat)
	}
	if len(name) > MaxFileNameLength {
		return "", fmt.Errorf("%w: file name exceeds %d characters", ErrUnsupportedFormat, MaxFileNameLength)
	}

	ext := strings.ToLower(filepath.Ext(name))
	format, ok := supportedFormats[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// ValidateSearchText validates the free-text account filter.
func ValidateSearchText(text string) error {
	if utf8.RuneCountInString(text) > MaxSearchTextLength {
		return fmt.Errorf("%w: search text exceeds %d characters", ErrInvalidFilter, MaxSearchTextLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
