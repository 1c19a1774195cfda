package daily

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2024-03-02 05:00 at +10 is still 2024-03-01 in UTC.
	assert.Equal(t, "2024-03-01", DateKey(time.Date(2024, 3, 2, 5, 0, 0, 0, loc)))
}

func TestPuzzleIndex(t *testing.T) {
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, PuzzleIndex(day, "salt", 0))
	assert.Equal(t, 0, PuzzleIndex(day, "salt", 1))

	i := PuzzleIndex(day, "salt", 7)
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 7)
	assert.Equal(t, i, PuzzleIndex(later, "salt", 7), "same day, same puzzle")
}

func TestPuzzleIndex_LongSalt(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	i := PuzzleIndex(day, strings.Repeat("s", 100), 5)
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 5)
}

func TestPuzzleIndex_Spreads(t *testing.T) {
	seen := map[int]bool{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 60; d++ {
		seen[PuzzleIndex(start.AddDate(0, 0, d), "salt", 4)] = true
	}
	assert.Len(t, seen, 4)
}
