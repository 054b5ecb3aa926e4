package leaderboard

import (
	"fmt"
	"time"
)

// Window is the time range a leaderboard aggregates over.
type Window string

const (
	MonthToDate Window = "month"
	YearToDate  Window = "year"
	AllTime     Window = "all-time"
)

// DefaultWindow is used when the caller does not pick one.
const DefaultWindow = YearToDate

// ParseWindow maps a query value onto a Window. Empty means DefaultWindow.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "":
		return DefaultWindow, nil
	case MonthToDate, YearToDate, AllTime:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown leaderboard window %q", s)
}

// Contains reports whether a post created at t counts toward the window as
// evaluated at now. Both times are compared in now's location.
func (w Window) Contains(t, now time.Time) bool {
	t = t.In(now.Location())
	switch w {
	case MonthToDate:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case YearToDate:
		return t.Year() == now.Year()
	default:
		return true
	}
}

// Bucket names the tally bucket holding the window's totals at now.
func (w Window) Bucket(now time.Time) string {
	switch w {
	case MonthToDate:
		return monthBucket(now)
	case YearToDate:
		return yearBucket(now)
	default:
		return allBucket
	}
}

const allBucket = "all"

// Buckets lists every tally bucket a post created at t contributes to.
func Buckets(t time.Time, loc *time.Location) []string {
	t = t.In(loc)
	return []string{allBucket, yearBucket(t), monthBucket(t)}
}

func yearBucket(t time.Time) string {
	return fmt.Sprintf("y%04d", t.Year())
}

func monthBucket(t time.Time) string {
	return fmt.Sprintf("m%04d-%02d", t.Year(), int(t.Month()))
}
