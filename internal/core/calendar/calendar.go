// Package calendar resolves day and month boundaries in one configured
// location. All "today" / "this month" arithmetic goes through a Calendar
// so the boundary is explicit instead of depending on the server zone.
package calendar

import "time"

// Calendar computes boundaries in Location. The zero value uses UTC.
type Calendar struct {
	Location *time.Location
}

// UTC returns a calendar with UTC day boundaries.
func UTC() Calendar {
	return Calendar{Location: time.UTC}
}

// In returns a calendar for loc.
func In(loc *time.Location) Calendar {
	return Calendar{Location: loc}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// StartOfDay returns midnight of t's day in the calendar location.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	lt := t.In(c.loc())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.loc())
}

// EndOfDay returns the first instant of the following day.
func (c Calendar) EndOfDay(t time.Time) time.Time {
	return c.StartOfDay(t).AddDate(0, 0, 1)
}

// StartOfMonth returns midnight of the first day of t's month.
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	lt := t.In(c.loc())
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, c.loc())
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc()).Date()
	by, bm, bd := b.In(c.loc()).Date()
	return ay == by && am == bm && ad == bd
}

// DayWindow returns [start, end) of t's day.
func (c Calendar) DayWindow(t time.Time) (time.Time, time.Time) {
	return c.StartOfDay(t), c.EndOfDay(t)
}
