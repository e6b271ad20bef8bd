package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{name: "plain integer", in: "500", want: fptr(500)},
		{name: "decimal point", in: "99.90", want: fptr(99.90)},
		{name: "comma decimal", in: "1200,50", want: fptr(1200.50)},
		{name: "grouped with currency", in: "1 200,50 ₽", want: fptr(1200.50)},
		{name: "nbsp grouping", in: "12 500 руб", want: fptr(12500)},
		{name: "digits with prefix text", in: "от 300", want: fptr(300)},
		{name: "no digits", in: "Договорная", want: nil},
		{name: "empty", in: "", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePrice(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		})
	}
}

func fptr(v float64) *float64 {
	return &v
}
