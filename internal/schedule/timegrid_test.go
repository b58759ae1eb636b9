package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeGridSlots(t *testing.T) {
	g := NewTimeGrid()

	slots := g.Slots()
	require.Len(t, slots, 7)
	assert.Equal(t, 9*60, slots[0])
	assert.Equal(t, 16*60, slots[len(slots)-1])
	assert.NotContains(t, slots, LunchStart, "lunch slot must not be in the grid")

	assert.Equal(t, []int{1, 2, 3, 4, 5}, g.Days())
	patterns := g.DayPatterns()
	require.Len(t, patterns, 3)
	assert.Equal(t, []int{1, 3, 5}, patterns[0])
	assert.Equal(t, []int{2, 4}, patterns[1])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, patterns[2])
}

func TestValidStart(t *testing.T) {
	g := NewTimeGrid()
	assert.True(t, g.ValidStart(9*60))
	assert.True(t, g.ValidStart(16*60))
	assert.False(t, g.ValidStart(LunchStart))
	assert.False(t, g.ValidStart(9*60+30))
	assert.False(t, g.ValidStart(17*60))
}

func TestNextSlot(t *testing.T) {
	g := NewTimeGrid()

	next, ok := g.NextSlot(9 * 60)
	require.True(t, ok)
	assert.Equal(t, 10*60, next)

	// The slot after 11:00 is 13:00; not contiguous across lunch.
	next, ok = g.NextSlot(11 * 60)
	require.True(t, ok)
	assert.Equal(t, 13*60, next)
	assert.NotEqual(t, 11*60+MeetingDuration, next)

	_, ok = g.NextSlot(16 * 60)
	assert.False(t, ok, "no slot after the last of the day")

	_, ok = g.NextSlot(615)
	assert.False(t, ok, "non-grid start has no successor")
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00", FormatClock(9*60))
	assert.Equal(t, "13:30", FormatClock(13*60+30))
	assert.Equal(t, "00:05", FormatClock(5))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, 9*60, m)

	m, err = ParseClock("16:45")
	require.NoError(t, err)
	assert.Equal(t, 16*60+45, m)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("10:75")
	assert.Error(t, err)
	_, err = ParseClock("garbage")
	assert.Error(t, err)
}
