// Package period maps named period filters to concrete date ranges and to
// the immediately preceding period of equal shape, for trend comparisons.
// All period math is done in UTC; callers pass "now" explicitly so that
// resolution stays a pure function.
package period

import (
	"fmt"
	"time"
)

// Token identifies a named period filter.
type Token string

const (
	All             Token = "all"
	CurrentMonth    Token = "current-month"
	CurrentQuarter  Token = "current-quarter"
	CurrentYear     Token = "current-year"
	LastThreeMonths Token = "last-3-months"
	CustomRange     Token = "custom-range"
)

// Valid reports whether t is a recognized period token.
func (t Token) Valid() bool {
	switch t {
	case All, CurrentMonth, CurrentQuarter, CurrentYear, LastThreeMonths, CustomRange:
		return true
	}
	return false
}

// Range is a resolved date range. Both bounds nil means unbounded ("all").
// End is inclusive.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Unbounded reports whether the range places no restriction on dates.
func (r Range) Unbounded() bool { return r.Start == nil || r.End == nil }

// Contains reports whether t falls within the range (inclusive).
func (r Range) Contains(t time.Time) bool {
	if r.Unbounded() {
		return true
	}
	return !t.Before(*r.Start) && !t.After(*r.End)
}

// Resolve maps a period token to a concrete date range relative to now.
// For CustomRange the caller supplies both bounds; the end bound is
// extended through the end of its day. All and unrecognized tokens
// resolve to the unbounded range.
func Resolve(token Token, now time.Time, customStart, customEnd *time.Time) (Range, error) {
	now = now.UTC()
	year, month := now.Year(), now.Month()

	switch token {
	case CurrentMonth:
		return span(
			time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)),
		), nil

	case CurrentQuarter:
		q := (int(month) - 1) / 3
		return span(
			time.Date(year, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, time.Month(q*3+4), 0, 0, 0, 0, 0, time.UTC)),
		), nil

	case CurrentYear:
		return span(
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)),
		), nil

	case LastThreeMonths:
		// Rolling window: first day of (current month - 2) through now,
		// not through month-end.
		return span(time.Date(year, month-2, 1, 0, 0, 0, 0, time.UTC), now), nil

	case CustomRange:
		if customStart == nil || customEnd == nil {
			return Range{}, fmt.Errorf("custom range requires both start and end dates")
		}
		if customEnd.Before(*customStart) {
			return Range{}, fmt.Errorf("custom range end precedes start")
		}
		return span(customStart.UTC(), endOfDay(customEnd.UTC())), nil

	default:
		return Range{}, nil
	}
}

// Previous returns the immediately preceding period of equal shape:
// previous month, previous quarter, previous year, or the 3-month window
// right before the rolling last-3-months window. There is no previous
// period for All, CustomRange, or unrecognized tokens.
func Previous(token Token, now time.Time) (Range, bool) {
	now = now.UTC()
	year, month := now.Year(), now.Month()

	switch token {
	case CurrentMonth:
		return span(
			time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, month, 0, 0, 0, 0, 0, time.UTC)),
		), true

	case CurrentQuarter:
		q := (int(month) - 1) / 3
		return span(
			time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, time.Month(q*3+1), 0, 0, 0, 0, 0, time.UTC)),
		), true

	case CurrentYear:
		return span(
			time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)),
		), true

	case LastThreeMonths:
		return span(
			time.Date(year, month-5, 1, 0, 0, 0, 0, time.UTC),
			endOfDay(time.Date(year, month-2, 0, 0, 0, 0, 0, time.UTC)),
		), true

	default:
		return Range{}, false
	}
}

func span(start, end time.Time) Range {
	return Range{Start: &start, End: &end}
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}
