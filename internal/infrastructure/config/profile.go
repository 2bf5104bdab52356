package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iho/ledgerdash/internal/domain"
)

// Profile customizes column recognition and the highlighted accounts.
//
//	aliases:
//	  date: ["Dt Mov"]
//	  amount: ["Vlr"]
//	accounts:
//	  revenue: ["Receita Vendas ML", "Receita Vendas SH"]
//	  tax: "Impostos - DAS Simples Nacional"
type Profile struct {
	Aliases  map[string][]string  `yaml:"aliases"`
	Accounts domain.NamedAccounts `yaml:"accounts"`
}

// DefaultProfile returns a profile with no extra aliases and the default
// named accounts.
func DefaultProfile() *Profile {
	return &Profile{
		Aliases:  map[string][]string{},
		Accounts: domain.DefaultNamedAccounts(),
	}
}

// LoadProfile reads a YAML profile. An empty path yields DefaultProfile.
// Account settings left out of the file keep their defaults.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile over the defaults.
func ParseProfile(data []byte) (*Profile, error) {
	var raw Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	p := DefaultProfile()
	for field, names := range raw.Aliases {
		p.Aliases[field] = names
	}

	a := raw.Accounts
	if len(a.Revenue) > 0 {
		p.Accounts.Revenue = a.Revenue
	}
	if len(a.Costs) > 0 {
		p.Accounts.Costs = a.Costs
	}
	if a.Purchases != "" {
		p.Accounts.Purchases = a.Purchases
	}
	if a.Tax != "" {
		p.Accounts.Tax = a.Tax
	}
	if a.TopN > 0 {
		p.Accounts.TopN = a.TopN
	}
	return p, nil
}
