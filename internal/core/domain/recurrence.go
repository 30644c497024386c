package domain

import (
	"fmt"
	"sort"
	"time"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// RecurrenceRule describes when a recurring task regenerates. Weekday
// indices run Monday = 0 through Sunday = 6 and only apply to weekly rules.
// The zero value is a non-recurring rule.
type RecurrenceRule struct {
	Type     RecurrenceType
	Interval int
	Days     []int
	EndDate  *time.Time
}

func (r RecurrenceRule) Validate() error {
	if r.Type == "" || r.Type == RecurrenceNone {
		return nil
	}
	if !r.Type.Valid() {
		return NewValidationError("unknown recurrence type %q", r.Type)
	}
	if r.Interval < 1 {
		return NewValidationError("recurrence interval must be at least 1")
	}
	if len(r.Days) > 0 && r.Type != RecurrenceWeekly {
		return NewValidationError("recurrence days only apply to weekly rules")
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			return NewValidationError("recurrence day %d out of range 0-6", d)
		}
	}
	return nil
}

// NextOccurrence computes the next due date strictly after from, or nil when
// the rule does not recur or the series has passed its end date. Pure: the
// caller supplies the reference date, the rule never reads the wall clock.
func (r RecurrenceRule) NextOccurrence(from time.Time) *time.Time {
	var next time.Time

	switch r.Type {
	case RecurrenceDaily:
		next = from.AddDate(0, 0, r.Interval)
	case RecurrenceWeekly:
		if len(r.Days) == 0 {
			next = from.AddDate(0, 0, 7*r.Interval)
			break
		}
		next = r.nextWeekday(from)
	case RecurrenceMonthly:
		next = addMonthsClipped(from, r.Interval)
	default:
		return nil
	}

	if r.EndDate != nil && next.After(*r.EndDate) {
		return nil
	}
	return &next
}

// nextWeekday picks the next matching weekday after from: first a later day
// inside from's week, otherwise the earliest matching day of the week
// Interval weeks ahead, counted from the Monday of from's week.
func (r RecurrenceRule) nextWeekday(from time.Time) time.Time {
	days := append([]int(nil), r.Days...)
	sort.Ints(days)

	idx := weekdayIndex(from)
	for _, d := range days {
		if d > idx {
			return from.AddDate(0, 0, d-idx)
		}
	}

	weekStart := from.AddDate(0, 0, -idx)
	return weekStart.AddDate(0, 0, 7*r.Interval+days[0])
}

// weekdayIndex maps time.Weekday (Sunday = 0) onto the Monday = 0 indexing
// the rule uses.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// addMonthsClipped advances by whole months, clipping to the last day of the
// target month instead of letting Jan 31 + 1 month roll over into March.
func addMonthsClipped(from time.Time, months int) time.Time {
	year, month, day := from.Date()
	hour, minute, sec := from.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, from.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		hour, minute, sec, from.Nanosecond(), from.Location())
}

func (r RecurrenceRule) String() string {
	if r.Type == "" || r.Type == RecurrenceNone {
		return "none"
	}
	return fmt.Sprintf("%s/%d", r.Type, r.Interval)
}
