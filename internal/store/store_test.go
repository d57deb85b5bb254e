package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayRangeBoundsUTCDay(t *testing.T) {
	at := time.Date(2025, 6, 15, 18, 30, 45, 0, time.UTC)
	start, end := dayRange(at)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), end)
	assert.True(t, !at.Before(start) && at.Before(end))
}

func TestDayRangeMidnightEdge(t *testing.T) {
	// Exactly midnight belongs to the starting day
	at := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	start, end := dayRange(at)
	assert.Equal(t, at, start)
	assert.Equal(t, at.Add(24*time.Hour), end)
}
