package mocks

import (
	"fmt"
	"sync"

	"github.com/iho/ledgerdash/internal/domain"
)

// StubParser is a function-backed LedgerParser.
type StubParser struct {
	ParseLedgerFunc func(fileName string, data []byte) (*domain.Table, error)
	ParseChartFunc  func(fileName string, data []byte) (*domain.ChartOfAccounts, error)
}

// ParseLedger calls ParseLedgerFunc, or returns an empty sheet error when unset.
func (s *StubParser) ParseLedger(fileName string, data []byte) (*domain.Table, error) {
	if s.ParseLedgerFunc != nil {
		return s.ParseLedgerFunc(fileName, data)
	}
	return nil, domain.ErrEmptySheet
}

// ParseChart calls ParseChartFunc, or returns an empty chart error when unset.
func (s *StubParser) ParseChart(fileName string, data []byte) (*domain.ChartOfAccounts, error) {
	if s.ParseChartFunc != nil {
		return s.ParseChartFunc(fileName, data)
	}
	return nil, domain.ErrEmptyChartAccounts
}

// SequenceIDGenerator returns prefix-1, prefix-2 and so on.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	Prefix string
	next   int
}

// Generate returns the next ID of the sequence.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.next)
}
