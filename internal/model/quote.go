package model

import "math"

type UpdateTimeKind int

const (
	UpdateTimeNone UpdateTimeKind = iota
	UpdateTimeUnix
	UpdateTimeDate
)

// UpdateTime is the "last updated" moment reported by a price endpoint.
// TradingView returns epoch seconds, Vanguard returns a date-only string,
// and either may be missing entirely.
type UpdateTime struct {
	Kind UpdateTimeKind
	Unix int64
	Date string
}

func NoUpdateTime() UpdateTime {
	return UpdateTime{Kind: UpdateTimeNone}
}

func UnixUpdateTime(ts int64) UpdateTime {
	return UpdateTime{Kind: UpdateTimeUnix, Unix: ts}
}

func DateUpdateTime(date string) UpdateTime {
	return UpdateTime{Kind: UpdateTimeDate, Date: date}
}

// Quote is the result of a single fetch. Price is NaN when the fetch or
// parse failed; quotes are never cached or persisted.
type Quote struct {
	Price      float64
	UpdateTime UpdateTime
}

func FailedQuote() Quote {
	return Quote{Price: math.NaN(), UpdateTime: NoUpdateTime()}
}

func (q Quote) Failed() bool {
	return math.IsNaN(q.Price)
}
