package model

import "time"

// Config contains runtime settings shared by the tracker and usage queries.
type Config struct {
	// BreakThreshold is the gap above which two pings belong to different
	// sessions. The same duration of idle time counts as a real break and
	// clears any accumulated reminder credit.
	BreakThreshold time.Duration

	// ReminderThreshold is the continuous active time after which a break
	// reminder is surfaced.
	ReminderThreshold time.Duration

	ReminderEnabled bool
}

// DefaultConfig returns default settings for Perch.
func DefaultConfig() Config {
	return Config{
		BreakThreshold:    2 * time.Minute,
		ReminderThreshold: 55 * time.Minute,
		ReminderEnabled:   true,
	}
}
