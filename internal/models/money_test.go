package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
		err  error
	}{
		{in: "15000", want: Rupees(15000)},
		{in: "10000.01", want: Paise(1000001)},
		{in: " 2.5 ", want: Paise(250)},
		{in: "-1", want: Rupees(-1)},
		{in: "1.001", err: ErrAmountPrecision},
		{in: "92233720368547758.07", want: Amount(math.MaxInt64)},
		{in: "92233720368547758.08", err: ErrAmountRange},
		{in: "184467440737095516.17", err: ErrAmountRange},
		{in: "1e30", err: ErrAmountRange},
		{in: "-1e30", err: ErrAmountRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_UnmarshalJSONRejectsOverflow(t *testing.T) {
	var a Amount
	err := json.Unmarshal([]byte(`"184467440737095516.17"`), &a)
	assert.ErrorIs(t, err, ErrAmountRange)
	assert.Zero(t, a)

	require.NoError(t, json.Unmarshal([]byte(`15000.5`), &a))
	assert.Equal(t, Paise(1500050), a)
}
