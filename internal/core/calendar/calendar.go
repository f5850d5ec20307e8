// Package calendar decides which days engineers can be given work.
// It is pure: a Calendar is built once per optimizer run from holidays and
// approved leave and then shared read-only.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display format for calendar dates.
const DateLayout = "2006-01-02"

// maxWorkDaySearch bounds NextWorkDay so a malformed holiday table cannot loop forever.
const maxWorkDaySearch = 366

// Leave request statuses. Only approved leave affects availability.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Holiday is a named non-work day.
type Holiday struct {
	Date  time.Time
	Label string
}

// Leave is an approved absence, inclusive on both ends.
type Leave struct {
	EngineerID string
	Start      time.Time
	End        time.Time
}

// Calendar answers work-day and availability questions.
type Calendar struct {
	holidays map[time.Time]string
	leave    map[string][]Leave
}

// New builds a Calendar. Only approved leave should be passed in.
func New(holidays []Holiday, leave []Leave) *Calendar {
	c := &Calendar{
		holidays: make(map[time.Time]string, len(holidays)),
		leave:    make(map[string][]Leave),
	}
	for _, h := range holidays {
		c.holidays[DateOf(h.Date)] = h.Label
	}
	for _, l := range leave {
		l.Start = DateOf(l.Start)
		l.End = DateOf(l.End)
		c.leave[l.EngineerID] = append(c.leave[l.EngineerID], l)
	}
	return c
}

// DateOf truncates t to its calendar day (UTC midnight), dropping time-of-day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Format renders a calendar day as YYYY-MM-DD.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// AddDays returns the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// HolidayLabel returns the holiday label for t, if any.
func (c *Calendar) HolidayLabel(t time.Time) (string, bool) {
	label, ok := c.holidays[DateOf(t)]
	return label, ok
}

// IsWorkDay reports whether t is neither a weekend day nor a holiday.
func (c *Calendar) IsWorkDay(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	_, holiday := c.HolidayLabel(t)
	return !holiday
}

// OnLeave reports whether the engineer has approved leave covering t.
func (c *Calendar) OnLeave(engineerID string, t time.Time) bool {
	day := DateOf(t)
	for _, l := range c.leave[engineerID] {
		if !day.Before(l.Start) && !day.After(l.End) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the engineer may be assigned work on t.
func (c *Calendar) IsAvailable(engineerID string, t time.Time) bool {
	return c.IsWorkDay(t) && !c.OnLeave(engineerID, t)
}

// NextWorkDay returns the first work day on or after t.
// If none is found within a year, t itself is returned.
func (c *Calendar) NextWorkDay(t time.Time) time.Time {
	day := DateOf(t)
	for i := 0; i < maxWorkDaySearch; i++ {
		if c.IsWorkDay(day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return DateOf(t)
}
