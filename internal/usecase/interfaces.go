package usecase

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
)

// SessionStore keeps one session per session ID.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound when id is unknown or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Save stores session, replacing any previous value with the same ID.
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// LedgerParser turns uploaded files into domain values.
type LedgerParser interface {
	ParseLedger(fileName string, data []byte) (*domain.Table, error)
	ParseChart(fileName string, data []byte) (*domain.ChartOfAccounts, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
