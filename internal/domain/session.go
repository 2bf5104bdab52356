package domain

import "time"

// Session holds the ledger most recently uploaded by one user session.
type Session struct {
	ID         string           `json:"id"`
	FileName   string           `json:"file_name"`
	UploadedAt time.Time        `json:"uploaded_at"`
	Ledger     *Table           `json:"ledger"`
	Chart      *ChartOfAccounts `json:"chart,omitempty"`
}

// HasLedger reports whether a ledger has been uploaded.
func (s *Session) HasLedger() bool {
	return s != nil && s.Ledger != nil
}
