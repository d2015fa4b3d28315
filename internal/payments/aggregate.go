// Package payments aggregates per-payment contribution records into the
// per-payer breakdowns shown by the dashboard's payer tooltips.
package payments

import (
	"fmt"

	"github.com/say-dao/dao-analytics/internal/shared"
)

// Contribution is one raw payment contribution against a need. Numeric
// fields tolerate upstream records that encode amounts as strings or null.
type Contribution struct {
	ID             *int64               `json:"id"`
	UserID         int64                `json:"id_user"`
	NeedAmount     shared.LenientFloat  `json:"need_amount"`
	DonationAmount shared.LenientFloat  `json:"donation_amount"`
	CreditAmount   shared.LenientFloat  `json:"credit_amount"`
	Verified       bool                 `json:"verified"`
	GatewayTrackID shared.LenientString `json:"gateway_track_id"`
}

// AggregatedPayer is one visible row per distinct contributing user,
// summing that user's verified positive-credit contributions.
type AggregatedPayer struct {
	UserID         int64   `json:"id_user"`
	RowID          string  `json:"reprId"`
	NeedAmount     float64 `json:"need_amount"`
	DonationAmount float64 `json:"donation_amount"`
	CreditAmount   float64 `json:"credit_amount"`
	GatewayTrackID string  `json:"gateway_track_id"`
}

// Aggregation is the result of a single pass over a need's contributions.
// RefundByUser keeps negative-credit totals even for users without a
// visible row; the dashboard only renders a refund next to an existing row,
// and that asymmetry is intentional.
type Aggregation struct {
	Rows         []AggregatedPayer `json:"rows"`
	RefundByUser map[int64]float64 `json:"refundByUser"`
}

// Aggregate walks contributions once, in order. Entries for excludeUserID
// (the platform's own pass-through ledger user) are skipped entirely.
// Negative credits accumulate into the refund map and never create a row;
// everything else must be verified to count. Rows keep first-seen user
// order, keyed by the first contribution's id or a user/gateway composite
// when the record has none.
func Aggregate(contributions []Contribution, excludeUserID int64) Aggregation {
	agg := Aggregation{
		Rows:         make([]AggregatedPayer, 0, len(contributions)),
		RefundByUser: make(map[int64]float64),
	}
	index := make(map[int64]int)

	for _, c := range contributions {
		if c.UserID == excludeUserID {
			continue
		}
		credit := c.CreditAmount.Float64()
		if credit < 0 {
			agg.RefundByUser[c.UserID] += credit
			continue
		}
		if !c.Verified {
			continue
		}
		i, ok := index[c.UserID]
		if !ok {
			index[c.UserID] = len(agg.Rows)
			agg.Rows = append(agg.Rows, AggregatedPayer{
				UserID:         c.UserID,
				RowID:          representativeID(c),
				NeedAmount:     c.NeedAmount.Float64(),
				DonationAmount: c.DonationAmount.Float64(),
				CreditAmount:   credit,
				GatewayTrackID: c.GatewayTrackID.String(),
			})
			continue
		}
		row := &agg.Rows[i]
		row.NeedAmount += c.NeedAmount.Float64()
		row.DonationAmount += c.DonationAmount.Float64()
		row.CreditAmount += credit
		if row.GatewayTrackID == "" {
			row.GatewayTrackID = c.GatewayTrackID.String()
		}
	}
	return agg
}

// CountNeedPayers counts visible payers whose summed need amount is positive.
func CountNeedPayers(agg Aggregation) int {
	count := 0
	for _, row := range agg.Rows {
		if row.NeedAmount > 0 {
			count++
		}
	}
	return count
}

func representativeID(c Contribution) string {
	if c.ID != nil {
		return fmt.Sprintf("%d", *c.ID)
	}
	return fmt.Sprintf("%d-%s", c.UserID, c.GatewayTrackID)
}
