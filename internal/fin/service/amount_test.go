package service

import (
	"testing"

	"golang-fin-scryper/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestAmountNormalizer_Normalize(t *testing.T) {
	n := NewAmountNormalizer(logger.NewNop())

	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "thousands separators", in: "1,234,567", want: 1234567},
		{name: "negative", in: "-12,000", want: -12000},
		{name: "decimal", in: "1,234.5", want: 1234.5},
		{name: "surrounding spaces", in: "  300 ", want: 300},
		{name: "empty", in: "", want: 0},
		{name: "whitespace only", in: "   ", want: 0},
		{name: "dash placeholder", in: "-", want: 0},
		{name: "unparsable", in: "N/A", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}
