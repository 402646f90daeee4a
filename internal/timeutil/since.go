// Package timeutil formats timestamps relative to now.
package timeutil

import (
	"fmt"
	"time"
)

// fudge widens the singular buckets so that 70 seconds still reads as
// "a minute ago".
const fudge = 1.25

// Since describes how long ago t was, relative to time.Now.
func Since(t time.Time) string {
	return SinceAt(t, time.Now())
}

// SinceAt describes how long before now t was.
func SinceAt(t, now time.Time) string {
	delta := now.Sub(t).Seconds()

	const (
		minute = 60.0
		hour   = 60 * minute
		day    = 24 * hour
	)

	switch {
	case delta < 1*fudge:
		return "a second ago"
	case delta < minute/fudge:
		return fmt.Sprintf("%d seconds ago", int(delta))
	case delta < minute*fudge:
		return "a minute ago"
	case delta < hour/fudge:
		return fmt.Sprintf("%d minutes ago", int(delta/minute))
	case delta < hour*fudge || delta/hour == 1:
		return "an hour ago"
	case delta < day/fudge:
		return fmt.Sprintf("%d hours ago", int(delta/hour))
	case delta < day*fudge || delta/day == 1:
		return "a day ago"
	default:
		return fmt.Sprintf("%d days ago", int(delta/day))
	}
}
