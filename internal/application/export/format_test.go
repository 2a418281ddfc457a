package export_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kajamart/admin-api/internal/application/export"
)

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"999":     "$999",
		"25000":   "$25.000",
		"1000000": "$1.000.000",
		"2899.6":  "$2.900",
		"-185000": "-$185.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, export.Money(decimal.RequireFromString(in)), in)
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "lows-2026-03-09.pdf", export.FileName("lows", at, export.FormatPDF))
	assert.Equal(t, "suppliers-2026-03-09.xlsx", export.FileName("suppliers", at, export.FormatXLSX))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "—", export.Date(time.Time{}))
	assert.Equal(t, "09/03/2026", export.Date(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
}
