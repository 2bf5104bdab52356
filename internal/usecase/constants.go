package usecase

import "time"

const (
	// DefaultSessionTTL is how long an idle session keeps its ledger.
	DefaultSessionTTL = 2 * time.Hour

	// DefaultMaxUploadBytes bounds an uploaded spreadsheet.
	DefaultMaxUploadBytes = 32 << 20
)
