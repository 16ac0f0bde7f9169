package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// Wednesday.
var now = time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

func TestParseToday(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty means now", input: "", want: "2025-01-15"},
		{name: "iso date", input: "2025-03-01", want: "2025-03-01"},
		{name: "slash date", input: "2025/03/01", want: "2025-03-01"},
		{name: "tomorrow", input: "tomorrow", want: "2025-01-16"},
		{name: "yesterday", input: "yesterday", want: "2025-01-14"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseToday(tc.input, now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, domain.DateKey(got))
		})
	}
}

func TestParseToday_Unparseable(t *testing.T) {
	_, err := parseToday("whenever", now)
	assert.ErrorContains(t, err, `cannot understand date "whenever"`)
}

func TestParseToday_KeepsLocation(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	got, err := parseToday("2025-03-01", now.In(la))
	require.NoError(t, err)
	assert.Equal(t, la, got.Location())
}
