// Package period maps coarse period selectors to concrete date windows
// used to bound transaction aggregation.
package period

import "time"

// Period is a closed enumeration of dashboard period selectors.
// Unrecognized values are a caller contract violation and must be
// rejected at the HTTP boundary before reaching this package.
type Period string

const (
	CurrentMonth Period = "current_month"
	LastMonth    Period = "last_month"
	Last30Days   Period = "last_30_days"
)

// Valid reports whether p is one of the known period selectors.
func (p Period) Valid() bool {
	switch p {
	case CurrentMonth, LastMonth, Last30Days:
		return true
	}
	return false
}

// Window is a concrete [Start, End] interval, inclusive on both ends.
// It is a derived value and is never persisted.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve maps a period selector to its window relative to now.
func Resolve(p Period, now time.Time) Window {
	switch p {
	case LastMonth:
		firstOfThis := firstOfMonth(now)
		lastOfPrev := endOfDay(firstOfThis.AddDate(0, 0, -1))
		return Window{Start: firstOfMonth(lastOfPrev), End: lastOfPrev}
	case Last30Days:
		// Rolling window, not calendar-aligned.
		return Window{Start: now.AddDate(0, 0, -30), End: now}
	default: // CurrentMonth
		first := firstOfMonth(now)
		// Day 0 of next month is the last day of this month.
		last := endOfDay(first.AddDate(0, 1, -1))
		return Window{Start: first, End: last}
	}
}

// Previous returns the equal-length window immediately preceding w,
// covering [w.Start − length, w.Start).
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	return Window{
		Start: w.Start.Add(-length),
		End:   w.Start.Add(-time.Nanosecond),
	}
}

// AnchorMonth returns the first-of-month date identifying which monthly
// budget rows apply to this window. A rolling window spanning two months
// pins to the month containing its start.
func (w Window) AnchorMonth() time.Time {
	return firstOfMonth(w.Start)
}

// Length returns the duration covered by the window.
func (w Window) Length() time.Duration {
	return w.End.Sub(w.Start)
}

// MonthWindow returns the full calendar-month window containing t.
func MonthWindow(t time.Time) Window {
	first := firstOfMonth(t)
	return Window{Start: first, End: endOfDay(first.AddDate(0, 1, -1))}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
