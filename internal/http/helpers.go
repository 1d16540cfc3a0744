package http

import (
	"fmt"
	"html/template"
	"strings"

	"fintrack/internal/core"
)

var templateFuncs = template.FuncMap{
	"money":   formatMoney,
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
}

// formatMoney formats an amount with thousands separators, e.g. "1,234.50".
func formatMoney(m core.Money) string {
	s := m.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
