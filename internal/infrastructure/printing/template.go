package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// templateFuncs are the helpers available to document templates. Formatting
// follows French conventions: comma decimal separator, space as thousands
// separator, symbol after the amount.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"euros":       formatEuros,
		"eurosPtr":    formatEurosPtr,
		"quantity":    formatQuantity,
		"percent":     formatPercent,
		"frenchDate":  formatFrenchDate,
		"hasValue":    func(d *decimal.Decimal) bool { return d != nil },
		"nonEmptyStr": func(s string) bool { return strings.TrimSpace(s) != "" },
	}
}

// formatEuros renders an amount as "1 234,56 €"
func formatEuros(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2)) + " €"
}

func formatEurosPtr(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return formatEuros(*d)
}

// formatQuantity trims trailing zeros and uses a comma separator
func formatQuantity(d decimal.Decimal) string {
	return strings.ReplaceAll(d.String(), ".", ",")
}

// formatPercent renders a rate as "20 %" or "5,5 %"
func formatPercent(d decimal.Decimal) string {
	return formatQuantity(d) + " %"
}

func formatFrenchDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

// groupThousands inserts a space every three digits of the integer part of a
// fixed-point string and swaps the decimal point for a comma
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
