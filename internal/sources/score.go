// internal/sources/score.go
package sources

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CostBenefitScore rates a card's value per mana: power plus toughness
// (only when both are set) plus half a point per keyword, divided by cmc.
// A zero-cost card scores "0".
func CostBenefitScore(cmc float64, power, toughness *string, keywords []string) string {
	if cmc == 0 {
		return "0"
	}

	value := decimal.Zero
	if power != nil && toughness != nil && *power != "" && *toughness != "" {
		value = value.Add(decimal.NewFromInt(leadingInt(*power) + leadingInt(*toughness)))
	}
	if len(keywords) > 0 {
		value = value.Add(decimal.NewFromFloat(0.5).Mul(decimal.NewFromInt(int64(len(keywords)))))
	}

	return value.Div(decimal.NewFromFloat(cmc)).StringFixed(2)
}

// leadingInt parses the integer prefix of s ("3" -> 3, "1+*" -> 1, "*" -> 0).
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
