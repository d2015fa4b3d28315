// Package report implements the season-comparison transforms behind the
// SAY DAO analytics dashboard: rate normalization, KPI aggregation, axis
// domain calculation and the elapsed-month calendar filter.
package report

import "math"

// NewRateSentinel is the chart-safe display value substituted when a period
// is "new" (previous count zero, current positive) and the true percentage
// change is undefined.
const NewRateSentinel = 100

// PeriodRecord is one bucket of a two-season comparison, usually a month.
type PeriodRecord struct {
	Period   string  `json:"period"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// NormalizedPeriodRecord extends a PeriodRecord with its percentage change.
// Rate is nil when the change is semantically infinite (previous zero,
// current positive); DisplayRate is always finite and safe to chart.
type NormalizedPeriodRecord struct {
	PeriodRecord
	Rate        *float64 `json:"rate"`
	IsNew       bool     `json:"isNew"`
	DisplayRate float64  `json:"displayRate"`
}

// Normalize converts raw previous/current pairs into display-ready records.
// It never fails: a nil input yields an empty slice, non-finite values are
// treated as 0, and a blank period label becomes "-".
func Normalize(records []PeriodRecord) []NormalizedPeriodRecord {
	out := make([]NormalizedPeriodRecord, 0, len(records))
	for _, r := range records {
		prev := sanitize(r.Previous)
		curr := sanitize(r.Current)
		n := NormalizedPeriodRecord{
			PeriodRecord: PeriodRecord{
				Period:   periodLabel(r.Period),
				Previous: prev,
				Current:  curr,
			},
		}
		switch {
		case prev == 0 && curr > 0:
			// Infinite percent change: keep Rate nil but chart the sentinel.
			n.IsNew = true
			n.DisplayRate = NewRateSentinel
		case prev == 0 && curr == 0:
			zero := 0.0
			n.Rate = &zero
		case prev == 0:
			// Negative current against a zero baseline: not "new", nothing
			// meaningful to chart.
		default:
			rate := (curr - prev) / prev * 100
			n.Rate = &rate
			n.DisplayRate = rate
		}
		out = append(out, n)
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func periodLabel(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
