package data

import (
	"time"

	"momentumlab/internal/domain"
)

const monthLabelLayout = "2006-01"

// MonthStarts returns the index of the first trading day of every calendar
// month present in dates
func MonthStarts(dates []time.Time) []int {
	out := []int{}
	for i, d := range dates {
		if i == 0 {
			out = append(out, i)
			continue
		}
		prev := dates[i-1]
		if d.Year() != prev.Year() || d.Month() != prev.Month() {
			out = append(out, i)
		}
	}
	return out
}

// BuildRebalancePeriods partitions the calendar into monthly holding
// periods. With N month starts there are N-1 periods; the trailing partial
// month is never held. A non-zero offset shifts each start by that many
// trading days, clamped so the period keeps at least one day.
func BuildRebalancePeriods(dates []time.Time, offset int) []domain.RebalancePeriod {
	starts := MonthStarts(dates)
	if len(starts) < 2 {
		return []domain.RebalancePeriod{}
	}

	out := make([]domain.RebalancePeriod, 0, len(starts)-1)
	for i := 0; i < len(starts)-1; i++ {
		monthStart := starts[i]
		next := starts[i+1]

		start := min(monthStart+offset, next-1)
		start = max(start, 0)

		out = append(out, domain.RebalancePeriod{
			StartIndex: start,
			EndIndex:   next - 1,
			Label:      dates[monthStart].Format(monthLabelLayout),
			Start:      dates[monthStart],
		})
	}
	return out
}

// ParseMonthLabel parses a "YYYY-MM" label back to the first of that month
func ParseMonthLabel(label string) (time.Time, error) {
	return time.Parse(monthLabelLayout, label)
}
