package util

import (
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "YYYY-MM-DD" flag or config value as a UTC date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

// TradingDays returns every weekday in [start, end]
func TradingDays(start, end time.Time) []time.Time {
	out := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}

func MonthLabel(t time.Time) string {
	return t.Format(monthLayout)
}
