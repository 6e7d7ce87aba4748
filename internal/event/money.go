package event

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount given in minor units as a human-readable
// string with two decimal places and the currency code, e.g. 59000 EUR
// becomes "590.00 EUR".
func FormatAmount(minorUnits int64, currencyCode string) string {
	amount := decimal.NewFromInt(minorUnits).Div(decimal.NewFromInt(100))
	return amount.StringFixed(2) + " " + strings.ToUpper(currencyCode)
}
