package models

import (
	"fmt"
	"time"
)

// Breakdown splits a duration into whole hours, minutes and seconds.
// Fractions are truncated at every step, never rounded.
type Breakdown struct {
	Hours   int64
	Minutes int64
	Seconds int64
}

// BreakdownOf computes the breakdown of d. Negative durations count as zero.
func BreakdownOf(d time.Duration) Breakdown {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return Breakdown{
		Hours:   s / 3600,
		Minutes: (s % 3600) / 60,
		Seconds: s % 60,
	}
}

// String renders "1h 1m 1s".
func (b Breakdown) String() string {
	return fmt.Sprintf("%dh %dm %ds", b.Hours, b.Minutes, b.Seconds)
}

// HoursMinutes renders "1h 1m", dropping the seconds.
func (b Breakdown) HoursMinutes() string {
	return fmt.Sprintf("%dh %dm", b.Hours, b.Minutes)
}

// WholeSeconds returns the duration as an integer number of seconds.
func WholeSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
