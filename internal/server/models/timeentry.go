package models

import (
	"database/sql"
	"time"
)

// Time-clock statuses.
const (
	ClockStatusIn    = "clocked_in"
	ClockStatusBreak = "on_break"
	ClockStatusOut   = "clocked_out"
)

// Break types.
const (
	BreakLunch = "lunch"
	BreakOther = "other"
)

type TimeEntry struct {
	ID       string
	UserID   string
	ClockIn  time.Time
	ClockOut sql.NullTime
	Status   string
	TotalMS  sql.NullInt64

	Breaks []TimeBreak
}

type TimeBreak struct {
	ID          string
	TimeEntryID string
	BreakStart  time.Time
	BreakEnd    sql.NullTime
	BreakType   string
}
