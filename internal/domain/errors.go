package domain

import "errors"

var (
	// Upload errors
	ErrSchema             = errors.New("required column missing")
	ErrUnparseableColumn  = errors.New("column could not be parsed")
	ErrEmptySheet         = errors.New("spreadsheet has no data rows")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyChartAccounts = errors.New("chart of accounts has no usable rows")

	// Session errors
	ErrSessionNotFound = errors.New("no ledger uploaded for this session")

	// Filter errors
	ErrInvalidFilter = errors.New("invalid filter")
)
