package domain

// ChartOfAccounts maps account codes to account names.
type ChartOfAccounts struct {
	Names map[string]string `json:"names"`
}

// NewChartOfAccounts creates an empty chart.
func NewChartOfAccounts() *ChartOfAccounts {
	return &ChartOfAccounts{Names: make(map[string]string)}
}

// Add registers a code. The first name seen for a code wins.
func (c *ChartOfAccounts) Add(code, name string) {
	if code == "" || name == "" {
		return
	}
	if _, exists := c.Names[code]; !exists {
		c.Names[code] = name
	}
}

// Len returns the number of codes.
func (c *ChartOfAccounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Names)
}

// Lookup returns the name for code.
func (c *ChartOfAccounts) Lookup(code string) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.Names[code]
	return name, ok
}

// Resolve left-joins rows against the chart and returns a new slice.
// Rows with a matched code take the chart name; unmatched codes keep
// their own name or fall back to UnknownAccountLabel. Rows without a
// code are left untouched.
func (c *ChartOfAccounts) Resolve(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		if row.AccountCode != "" {
			if name, ok := c.Lookup(row.AccountCode); ok {
				row.AccountName = name
			} else if row.AccountName == "" {
				row.AccountName = UnknownAccountLabel
			}
		}
		out[i] = row
	}
	return out
}
