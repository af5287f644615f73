package domain

import "time"

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// RebalancePeriod is one holding period. Weights are decided using data up to
// StartIndex-1 and held from StartIndex through EndIndex (inclusive), both
// offsets into the shared trading-day calendar.
type RebalancePeriod struct {
	StartIndex int
	EndIndex   int
	Label      string
	Start      time.Time
}

func (p RebalancePeriod) SelectionIndex() int {
	return p.StartIndex - 1
}
