package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVND(t *testing.T) {
	cases := map[string]decimal.Decimal{
		"1.234.567 ₫":  decimal.NewFromInt(1234567),
		"0 ₫":          decimal.Zero,
		"999 ₫":        decimal.NewFromInt(999),
		"1.000 ₫":      decimal.NewFromInt(1000),
		"12.500.000 ₫": decimal.RequireFromString("12499999.6"),
		"-45.000 ₫":    decimal.NewFromInt(-45000),
	}
	for want, in := range cases {
		assert.Equal(t, want, VND(in), in.String())
	}
	assert.Equal(t, "1.234.567 ₫", VNDInt(1234567))
}

func TestDates(t *testing.T) {
	ts := time.Date(2026, 10, 15, 20, 30, 5, 0, time.UTC)
	assert.Equal(t, "16/10/2026", Date(ts))
	assert.Equal(t, "03:30:05 16/10/2026", DateTime(ts))
	assert.Equal(t, "-", Date(time.Time{}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.5%", Percent(12.5))
	assert.Equal(t, "10%", Percent(10))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "12.500", Number(12500))
	assert.Equal(t, "-1.000.000", Number(-1000000))
}
