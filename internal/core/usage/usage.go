package usage

import (
	"math"
	"sort"
	"time"
)

// Session is a maximal run of pings where consecutive gaps never exceed the
// configured threshold. Start and End are local wall-clock labels (hour:minute).
type Session struct {
	Start           string
	End             string
	StartTS         int64
	EndTS           int64
	DurationMinutes int
}

// Day aggregates the sessions of one local calendar date.
type Day struct {
	Date         string
	TotalMinutes int
	Sessions     []Session
}

const (
	dateLayout  = "2006-01-02"
	labelLayout = "15:04"
)

// PingSource provides recorded activity timestamps for a closed range.
type PingSource interface {
	PingsBetween(start, end int64) ([]int64, error)
}

// History reconstructs usage days for the trailing dayCount days, ending now.
// Negative day counts are treated as zero.
func History(source PingSource, dayCount int, gap time.Duration, now time.Time) ([]Day, error) {
	if dayCount < 0 {
		dayCount = 0
	}
	start := now.AddDate(0, 0, -(dayCount + 1))
	pings, err := source.PingsBetween(start.Unix(), now.Unix())
	if err != nil {
		return nil, err
	}
	return BuildDays(pings, gap, time.Local), nil
}

// BuildDays partitions ascending ping timestamps into local calendar days and
// merges consecutive pings into sessions. Two pings belong to the same session
// while the gap between them does not exceed the threshold; a gap strictly
// greater than the threshold starts a new session.
func BuildDays(pings []int64, gap time.Duration, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[string][]int64)
	var dates []string
	for _, ping := range pings {
		date := time.Unix(ping, 0).In(loc).Format(dateLayout)
		if _, seen := buckets[date]; !seen {
			dates = append(dates, date)
		}
		buckets[date] = append(buckets[date], ping)
	}
	sort.Strings(dates)

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		days = append(days, buildDay(date, buckets[date], gap, loc))
	}
	return days
}

func buildDay(date string, pings []int64, gap time.Duration, loc *time.Location) Day {
	day := Day{Date: date}
	if len(pings) == 0 {
		// Buckets are only created with at least one ping; tolerate anyway.
		return day
	}

	thresholdSeconds := int64(gap / time.Second)
	currentStart := pings[0]
	lastPing := pings[0]
	var totalSeconds int64

	for _, ping := range pings[1:] {
		if ping-lastPing > thresholdSeconds {
			day.Sessions = append(day.Sessions, newSession(currentStart, lastPing, loc))
			totalSeconds += lastPing - currentStart
			currentStart = ping
		}
		lastPing = ping
	}
	day.Sessions = append(day.Sessions, newSession(currentStart, lastPing, loc))
	totalSeconds += lastPing - currentStart

	day.TotalMinutes = int(totalSeconds / 60)
	return day
}

func newSession(start, end int64, loc *time.Location) Session {
	minutes := int(math.Round(float64(end-start) / 60))
	if minutes < 1 {
		minutes = 1
	}
	return Session{
		Start:           time.Unix(start, 0).In(loc).Format(labelLayout),
		End:             time.Unix(end, 0).In(loc).Format(labelLayout),
		StartTS:         start,
		EndTS:           end,
		DurationMinutes: minutes,
	}
}
