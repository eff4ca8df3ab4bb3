package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceDifferenceParse(t *testing.T) {
	tests := []struct {
		name   string
		diff   PriceDifference
		want   Price
		hasErr bool
	}{
		{
			name: "negative with thousands separator",
			diff: PriceDifference{Amount: "3,000", Sign: "-", CurrencyCode: "PTS"},
			want: Price{Amount: -3000, CurrencyCode: "PTS"},
		},
		{
			name: "positive",
			diff: PriceDifference{Amount: "125", Sign: "+", CurrencyCode: "USD"},
			want: Price{Amount: 125, CurrencyCode: "USD"},
		},
		{
			name: "zero",
			diff: PriceDifference{Amount: "0", CurrencyCode: "USD"},
			want: Price{Amount: 0, CurrencyCode: "USD"},
		},
		{
			name:   "unparseable",
			diff:   PriceDifference{Amount: "12.50", Sign: "-", CurrencyCode: "USD"},
			hasErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := tt.diff.Parse()
			if tt.hasErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}
