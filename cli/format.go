// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatNumber formats a decimal with pt-BR separators and fixed places.
// e.g., 1234.5 -> "1.234,50"
func FormatNumber(d decimal.Decimal, places int) string {
	return ptBR.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.Scale(places)))
}

// FormatBRL formats a value in reais.
// e.g., 1234.56 -> "R$ 1.234,56", -0.5 -> "-R$ 0,50"
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-R$ " + FormatNumber(d.Neg(), 2)
	}
	return "R$ " + FormatNumber(d, 2)
}

// FormatPercent formats a fraction as a pt-BR percentage.
// e.g., 0.106 -> "10,60%"
func FormatPercent(rate decimal.Decimal, places int) string {
	return FormatNumber(rate.Mul(decimal.NewFromInt(100)), places) + "%"
}

// ParseBRL parses an amount typed in pt-BR notation. Everything except
// digits, commas and minus signs is dropped, so dots are always thousands
// separators: "R$ 1.234,56" and "1234,56" both give 1234.56.
func ParseBRL(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, fmt.Errorf("no amount in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// FormatDayOfWeek returns a 3-letter pt-BR day abbreviation.
func FormatDayOfWeek(weekday int) string {
	days := []string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}
