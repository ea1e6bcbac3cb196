package service

import (
	"time"
)

// now is swapped out by tests that need a fixed clock
var now = func() time.Time { return time.Now().UTC() }

// GetNextResetTime returns the next daily reset at resetHour UTC
func GetNextResetTime(at time.Time, resetHour int) time.Time {
	at = at.UTC()
	resetTime := time.Date(at.Year(), at.Month(), at.Day(), resetHour, 0, 0, 0, time.UTC)
	if !at.Before(resetTime) {
		resetTime = resetTime.AddDate(0, 0, 1)
	}
	return resetTime
}

// GetCurrentPeriodStart returns when the daily period containing at began
func GetCurrentPeriodStart(at time.Time, resetHour int) time.Time {
	at = at.UTC()
	periodStart := time.Date(at.Year(), at.Month(), at.Day(), resetHour, 0, 0, 0, time.UTC)
	if at.Before(periodStart) {
		periodStart = periodStart.AddDate(0, 0, -1)
	}
	return periodStart
}

// StartOfUTCDay is the boundary self-limits and daily claims use
func StartOfUTCDay(at time.Time) time.Time {
	return GetCurrentPeriodStart(at, 0)
}
