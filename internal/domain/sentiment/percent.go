package sentiment

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent returns part/total*100 rounded half away from zero to one decimal.
// A zero total yields 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	v, _ := decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		Float64()
	return v
}

// PercentagesOf converts three-way counts to rounded shares
func PercentagesOf(c SentimentCounts) Percentages {
	total := c.Total()
	return Percentages{
		Positive: Percent(c.Positive, total),
		Negative: Percent(c.Negative, total),
		Neutral:  Percent(c.Neutral, total),
	}
}
