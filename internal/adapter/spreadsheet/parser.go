package spreadsheet

import (
	"github.com/iho/ledgerdash/internal/domain"
)

// Parser runs the loader and the normalizer over an uploaded file.
type Parser struct {
	loader     *Loader
	normalizer *Normalizer
}

// NewParser creates a Parser resolving headers through aliases.
func NewParser(aliases Aliases) *Parser {
	return &Parser{
		loader:     NewLoader(),
		normalizer: NewNormalizer(aliases),
	}
}

// ParseLedger reads a ledger file into a normalized table.
func (p *Parser) ParseLedger(fileName string, data []byte) (*domain.Table, error) {
	sheet, err := p.loader.Load(fileName, data)
	if err != nil {
		return nil, err
	}
	return p.normalizer.Normalize(sheet)
}

// ParseChart reads a chart-of-accounts file.
func (p *Parser) ParseChart(fileName string, data []byte) (*domain.ChartOfAccounts, error) {
	sheet, err := p.loader.Load(fileName, data)
	if err != nil {
		return nil, err
	}
	return p.normalizer.NormalizeChart(sheet)
}
