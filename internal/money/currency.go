package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

var hundred = decimal.NewFromInt(100)

// ParseCurrency reads a pt-BR formatted amount such as "R$ 1.234,56".
// Blank or malformed input reads as zero.
func ParseCurrency(raw string) float64 {
	value, ok := parseDecimal(raw)
	if !ok {
		return 0
	}
	return value.InexactFloat64()
}

// FormatCurrency renders an amount as "R$ 1.234,56".
func FormatCurrency(value float64) string {
	return currencySymbol + " " + FormatAmount(value)
}

// FormatAmount renders an amount as "1.234,56" without the symbol. NaN and
// infinities have no decimal form and render as zero.
func FormatAmount(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return formatDecimal(decimal.Zero)
	}
	return formatDecimal(decimal.NewFromFloat(value))
}

// FormatInput turns whatever the user typed into a grouped amount, reading
// the digits as cents: "123456" becomes "1.234,56".
func FormatInput(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return formatDecimal(decimal.Zero)
	}
	cents, err := decimal.NewFromString(digits.String())
	if err != nil {
		return formatDecimal(decimal.Zero)
	}
	return formatDecimal(cents.Div(hundred))
}

func parseDecimal(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, currencySymbol, "")
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\u00a0', '.':
			return -1
		case ',':
			return '.'
		}
		return r
	}, cleaned)
	if cleaned == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

func formatDecimal(value decimal.Decimal) string {
	fixed := value.Round(2).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)

	if negative && !value.Round(2).IsZero() {
		grouped = "-" + grouped
	}
	return grouped + "," + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
