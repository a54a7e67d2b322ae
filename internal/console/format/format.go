// Package format renders money and dates the way the console shows them:
// Vietnamese grouping, no decimals on currency, vi-VN date order.
package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₫"

// Vietnam has no DST, a fixed zone avoids depending on the tz database.
var vietnam = time.FixedZone("ICT", 7*60*60)

// VND formats an amount as "1.234.567 ₫".
func VND(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().StringFixed(0)

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(group(digits, '.'))
	b.WriteByte(' ')
	b.WriteString(currencySymbol)
	return b.String()
}

// VNDInt is VND for whole amounts.
func VNDInt(amount int64) string {
	return VND(decimal.NewFromInt(amount))
}

// Number groups an integer with dots, e.g. 12.500.
func Number(n int64) string {
	if n < 0 {
		return "-" + group(strconv.FormatInt(-n, 10), '.')
	}
	return group(strconv.FormatInt(n, 10), '.')
}

func group(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Date renders dd/mm/yyyy in Vietnam time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(vietnam).Format("02/01/2006")
}

// DateTime renders hh:mm:ss dd/mm/yyyy in Vietnam time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(vietnam).Format("15:04:05 02/01/2006")
}

// Percent renders a commission percentage without trailing zeros.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).String() + "%"
}
