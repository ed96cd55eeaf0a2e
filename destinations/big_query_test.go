package destinations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCSVValue(t *testing.T) {
	tests := []struct {
		name     string
		cell     interface{}
		expected string
	}{
		{"null", nil, ""},
		{"integer", int64(42), "42"},
		{"float", 3.25, "3.25"},
		{"timestamp", time.Date(2021, 1, 1, 0, 30, 10, 0, time.UTC), "2021-01-01 00:30:10"},
		{"string", "N", "N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCSVValue(tt.cell))
		})
	}
}
