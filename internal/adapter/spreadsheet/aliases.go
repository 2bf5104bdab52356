package spreadsheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical ledger column.
type Field string

const (
	FieldDate         Field = "date"
	FieldAmount       Field = "amount"
	FieldAccountName  Field = "account_name"
	FieldAccountGroup Field = "account_group"
	FieldAccountCode  Field = "account_code"
	FieldType         Field = "type"
	FieldDescription  Field = "description"
)

// Fields lists every logical column in resolution order.
var Fields = []Field{
	FieldDate, FieldAmount, FieldAccountName, FieldAccountGroup,
	FieldAccountCode, FieldType, FieldDescription,
}

// Aliases maps each logical column to the header spellings that select it.
type Aliases map[Field][]string

// DefaultAliases returns the built-in alias table.
func DefaultAliases() Aliases {
	return Aliases{
		FieldDate:         {"Data", "Data Movimento", "Data Lançamento", "Data Competência", "Dt", "Date"},
		FieldAmount:       {"Valor", "Valor R$", "Valor (R$)", "Montante", "Amount", "Value"},
		FieldAccountName:  {"ContaContabil", "Conta", "Nome Conta", "Account", "Account Name"},
		FieldAccountGroup: {"GrupoDeConta", "Grupo", "Account Group", "Group"},
		FieldAccountCode:  {"Codigo", "Cod Conta", "Código Conta", "Code", "Account Code"},
		FieldType:         {"Tipo", "D/C", "DC", "Natureza", "Type"},
		FieldDescription:  {"Descrição", "Histórico", "Description"},
	}
}

// Merge returns a copy of a with extra spellings appended per field.
// Unknown field names are ignored.
func (a Aliases) Merge(extra map[string][]string) Aliases {
	out := make(Aliases, len(a))
	for f, names := range a {
		out[f] = append([]string(nil), names...)
	}
	for name, spellings := range extra {
		f := Field(name)
		if _, ok := out[f]; !ok {
			continue
		}
		out[f] = append(out[f], spellings...)
	}
	return out
}

// headerKey folds a header for alias comparison: accents, case, whitespace,
// underscores and punctuation other than '/' and '$' are ignored.
func headerKey(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '/' || r == '$' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
