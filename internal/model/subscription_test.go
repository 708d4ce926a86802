package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekdaySetParsesCSV(t *testing.T) {
	s := Subscription{Weekdays: "1, 3,5"}
	set := s.WeekdaySet()
	assert.True(t, set[time.Monday])
	assert.True(t, set[time.Wednesday])
	assert.True(t, set[time.Friday])
	assert.False(t, set[time.Tuesday])
}

func TestWeekdaySetSkipsMalformedEntries(t *testing.T) {
	s := Subscription{Weekdays: "1,x,9,-1,5"}
	set := s.WeekdaySet()
	assert.Len(t, set, 2)
	assert.True(t, set[time.Monday])
	assert.True(t, set[time.Friday])
}

func TestCoversDateWeeklyDelivery(t *testing.T) {
	s := Subscription{
		Weekdays:      "1,3,5",
		IntervalWeeks: 1,
		ValidFrom:     date("2026-01-01"),
	}

	assert.True(t, s.CoversDate(date("2026-02-04")))  // Wednesday
	assert.False(t, s.CoversDate(date("2026-02-05"))) // Thursday
}

func TestCoversDateRespectsValidityWindow(t *testing.T) {
	until := date("2026-02-06")
	s := Subscription{
		Weekdays:      "5",
		IntervalWeeks: 1,
		ValidFrom:     date("2026-01-30"),
		ValidUntil:    &until,
	}

	assert.False(t, s.CoversDate(date("2026-01-23"))) // Friday before the window
	assert.True(t, s.CoversDate(date("2026-01-30")))
	assert.True(t, s.CoversDate(date("2026-02-06"))) // last covered Friday
	assert.False(t, s.CoversDate(date("2026-02-13")))
}

func TestCoversDateBiweeklyCadence(t *testing.T) {
	// Anchored at the week of Monday 2026-01-26.
	s := Subscription{
		Weekdays:      "5",
		IntervalWeeks: 2,
		ValidFrom:     date("2026-01-26"),
	}

	assert.True(t, s.CoversDate(date("2026-01-30")))  // week 0
	assert.False(t, s.CoversDate(date("2026-02-06"))) // week 1
	assert.True(t, s.CoversDate(date("2026-02-13")))  // week 2
}

func TestCoversDateAnchorMidweek(t *testing.T) {
	// ValidFrom on a Thursday still anchors at that week's Monday.
	s := Subscription{
		Weekdays:      "2",
		IntervalWeeks: 2,
		ValidFrom:     date("2026-01-29"),
	}

	assert.False(t, s.CoversDate(date("2026-01-27"))) // Tuesday before ValidFrom
	assert.True(t, s.CoversDate(date("2026-02-10")))  // Tuesday of week 2
	assert.False(t, s.CoversDate(date("2026-02-17"))) // Tuesday of week 3
}
