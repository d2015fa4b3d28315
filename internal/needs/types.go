// Package needs models the delivered-need transactions behind the payment
// history table, including the delivery-stage enums and the table's
// stable sort and pagination engine.
package needs

import (
	"github.com/say-dao/dao-analytics/internal/payments"
	"github.com/say-dao/dao-analytics/internal/shared"
)

// NeedType distinguishes product needs from service needs.
type NeedType int

const (
	// NeedTypeService is a service need (tuition, therapy, ...).
	NeedTypeService NeedType = 0
	// NeedTypeProduct is a physical product need.
	NeedTypeProduct NeedType = 1
)

// ParseNeedType maps the URL path segment to a need type.
func ParseNeedType(segment string) (NeedType, error) {
	switch segment {
	case "0", "service":
		return NeedTypeService, nil
	case "1", "product":
		return NeedTypeProduct, nil
	}
	return 0, shared.ErrUnknownNeedType
}

// Payment statuses shared by both need types.
const (
	StatusNotPaid     = 0
	StatusPartialPay  = 1
	StatusCompletePay = 2
)

// Product delivery stages.
const (
	StatusExpDeliveryToNGO = -1
	StatusPurchasedProduct = 3
	StatusDeliveredToNGO   = 4
	StatusProductDelivered = 5
)

// Service delivery stages.
const (
	StatusMoneyToNGO       = 3
	StatusServiceDelivered = 4
)

// DoneStatus returns the terminal delivery stage for a need type.
func DoneStatus(t NeedType) int {
	if t == NeedTypeProduct {
		return StatusProductDelivered
	}
	return StatusServiceDelivered
}

// Transaction is one delivered-need record as the payment table consumes
// it: delivery-stage dates, cost fields and the nested raw contributions.
// Dates stay strings; the sort engine parses them on demand and treats
// unparsable values as ties.
type Transaction struct {
	ID                   int64                   `json:"id"`
	Title                string                  `json:"title"`
	Img                  string                  `json:"img"`
	Type                 NeedType                `json:"type"`
	Status               int                     `json:"status"`
	Cost                 shared.LenientFloat     `json:"_cost"`
	PurchaseCost         shared.LenientFloat     `json:"purchase_cost"`
	Created              string                  `json:"created"`
	Updated              string                  `json:"updated"`
	ConfirmDate          string                  `json:"confirmDate"`
	DoneAt               string                  `json:"doneAt"`
	PurchaseDate         string                  `json:"purchase_date"`
	StatusUpdatedAt      string                  `json:"status_updated_at"`
	ExpectedDeliveryDate string                  `json:"expected_delivery_date"`
	NGODeliveryDate      string                  `json:"ngo_delivery_date"`
	ChildDeliveryDate    string                  `json:"child_delivery_date"`
	Payments             []payments.Contribution `json:"p"`
}

// DeliveredList is the payload for the delivered-needs table: one page of
// rows plus server pagination metadata.
type DeliveredList struct {
	Delivered []Transaction     `json:"delivered"`
	Meta      shared.Pagination `json:"meta"`
}
