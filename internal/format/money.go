package format

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Money renders amount in the given ISO 4217 currency, e.g. "$1,234.50".
// Unknown currencies, and amounts too large for go-money's int64 minor
// units, fall back to "1234.50 XYZ".
func Money(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return plain(amount, code)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return plain(amount, code)
	}
	return money.New(minor.IntPart(), code).Display()
}

func plain(amount decimal.Decimal, code string) string {
	return amount.StringFixed(2) + " " + code
}
