package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodayIsUTCDate(t *testing.T) {
	india := time.FixedZone("IST", 5*60*60+30*60)

	c := NewMockClock(time.Date(2026, 10, 19, 2, 0, 0, 0, india))
	assert.Equal(t, "2026-10-18", Today(c))

	c.Advance(4 * time.Hour)
	assert.Equal(t, "2026-10-19", Today(c))
}

func TestMockClockSet(t *testing.T) {
	c := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Set(time.Date(2027, 3, 4, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2027-03-04", Today(c))
}
