package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)

	number := GenerateNumber(now)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "ORD", parts[0])
	assert.Equal(t, "20260830", parts[1])
	assert.Len(t, parts[2], numberSuffixLen)
	for _, r := range parts[2] {
		assert.Contains(t, numberAlphabet, string(r))
	}
}

func TestGenerateNumberUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// Local date is already Aug 31, but the UTC date is still Aug 30.
	now := time.Date(2026, 8, 31, 1, 0, 0, 0, loc)

	number := GenerateNumber(now)

	assert.True(t, strings.HasPrefix(number, "ORD-20260830-"), number)
}

func TestGenerateNumberUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		number := GenerateNumber(now)
		_, dup := seen[number]
		require.False(t, dup, "duplicate order number %s after %d generations", number, i)
		seen[number] = struct{}{}
	}
}
