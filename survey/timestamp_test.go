package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in       string
		expected time.Time
	}{
		{"2024-01-15T09:30:12Z", time.Date(2024, 1, 15, 9, 30, 12, 0, time.UTC)},
		{"2024-01-15 09:30:12", time.Date(2024, 1, 15, 9, 30, 12, 0, time.UTC)},
		{"1/15/2024 9:30:12", time.Date(2024, 1, 15, 9, 30, 12, 0, time.UTC)},
		{"1/15/2024 9:30:12 PM", time.Date(2024, 1, 15, 21, 30, 12, 0, time.UTC)},
		{" 12/3/2023 ", time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if assert.True(t, ok, tt.in) {
			assert.True(t, tt.expected.Equal(got), "%q parsed as %v", tt.in, got)
		}
	}

	for _, bad := range []string{"", "yesterday", "15/1/2024 9:30:12"} {
		_, ok := ParseTimestamp(bad)
		assert.False(t, ok, bad)
	}
}
