package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11600.00", "$11,600.00"},
		{"0", "$0.00"},
		{"1234.567", "$1,234.57"},
		{"-1000", "-$1,000.00"},
		{"n/a", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.in))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+16.00%", formatPercent("16"))
	assert.Equal(t, "-33.33%", formatPercent("-33.33"))
	assert.Equal(t, "0.00%", formatPercent("0"))
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	printOutcome(&buf, &investsimv1.Outcome{
		Mode: "finite",
		Results: []*investsimv1.AssetResult{{
			Ticker:           "AAPL",
			AllocatedAmount:  "5000.00",
			InitialDate:      "2023-12-29",
			FinalDate:        "2024-12-31",
			Shares:           "33.333333",
			FinalValue:       "6000.00",
			ReturnPercentage: "20.00",
		}},
		Summary: &investsimv1.Summary{
			InitialInvestment: "5000.00",
			FinalValue:        "6000.00",
			Profit:            "1000.00",
			ReturnPercentage:  "20.00",
			Recommendations:   []string{"Consider diversifying"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$6,000.00")
	assert.Contains(t, out, "Profit: $1,000.00 (+20.00%)")
	assert.Contains(t, out, "Consider diversifying")
}

func TestPrintSimulations_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSimulations(&buf, nil)
	assert.Equal(t, "No saved simulations\n", buf.String())
}
