package report

// SeasonKPI aggregates a normalized series into season totals. Pct follows
// the same semantics as a single record's Rate: nil exactly when the
// previous total is zero and the current total positive.
type SeasonKPI struct {
	PrevTotal float64  `json:"prevTotal"`
	CurrTotal float64  `json:"currTotal"`
	Pct       *float64 `json:"pct"`
}

// Direction classifies a season's aggregate movement. The dashboard needs an
// explicit three-way branch here: a nil Pct is "new", not negative.
type Direction int

const (
	// DirectionNew marks a season with no prior baseline.
	DirectionNew Direction = iota
	// DirectionUp marks zero or positive growth.
	DirectionUp
	// DirectionDown marks decline.
	DirectionDown
)

// AggregateKPI sums previous/current across all records and computes the
// aggregate percentage change from the totals, never by averaging
// per-record rates. Empty input yields zero totals and a zero Pct.
func AggregateKPI(records []NormalizedPeriodRecord) SeasonKPI {
	var kpi SeasonKPI
	for _, r := range records {
		kpi.PrevTotal += sanitize(r.Previous)
		kpi.CurrTotal += sanitize(r.Current)
	}
	switch {
	case kpi.PrevTotal == 0 && kpi.CurrTotal > 0:
		// nil: the season is new, no percentage exists.
	default:
		pct := 0.0
		if kpi.PrevTotal != 0 {
			pct = (kpi.CurrTotal - kpi.PrevTotal) / kpi.PrevTotal * 100
		}
		kpi.Pct = &pct
	}
	return kpi
}

// Direction returns the three-way movement classification.
func (k SeasonKPI) Direction() Direction {
	if k.Pct == nil {
		return DirectionNew
	}
	if *k.Pct >= 0 {
		return DirectionUp
	}
	return DirectionDown
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "new"
	}
}
