package utils

import (
	"github.com/shopspring/decimal"
)

// miliunitExp is the exponent of the storage unit: amounts are kept in
// thousandths of the display currency unit.
const miliunitExp = -3

// ConvertAmountFromMiliunits converts a stored amount to display units.
func ConvertAmountFromMiliunits(amount int64) decimal.Decimal {
	return decimal.New(amount, miliunitExp)
}

// ConvertAmountToMiliunits converts a display amount to the stored scaled integer,
// rounding half away from zero at the third decimal.
func ConvertAmountToMiliunits(amount decimal.Decimal) int64 {
	return amount.Shift(-miliunitExp).Round(0).IntPart()
}

// FormatAmount renders a stored amount the way notification messages show it,
// e.g. -450 -> "$-0.45".
func FormatAmount(amount int64) string {
	return "$" + ConvertAmountFromMiliunits(amount).StringFixed(2)
}
