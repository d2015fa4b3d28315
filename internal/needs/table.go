package needs

import (
	"sort"
	"time"
)

// SortDirection orders a column ascending or descending.
type SortDirection string

const (
	// SortAsc sorts ascending.
	SortAsc SortDirection = "asc"
	// SortDesc sorts descending.
	SortDesc SortDirection = "desc"
)

// dateFields is the whitelist of columns compared as timestamps. Every
// other column compares by its native value.
var dateFields = map[string]bool{
	"updated":                true,
	"created":                true,
	"doneAt":                 true,
	"confirmDate":            true,
	"purchase_date":          true,
	"status_updated_at":      true,
	"expected_delivery_date": true,
	"ngo_delivery_date":      true,
	"child_delivery_date":    true,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SortRows returns rows ordered by the named field. The sort is stable:
// rows that compare equal, including rows with unparsable dates, keep
// their original relative order. Unknown fields leave the order untouched.
func SortRows(rows []Transaction, field string, dir SortDirection) []Transaction {
	out := make([]Transaction, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		c := compareRows(out[i], out[j], field)
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareRows(a, b Transaction, field string) int {
	if dateFields[field] {
		ta, aok := parseDate(stringField(a, field))
		tb, bok := parseDate(stringField(b, field))
		if !aok || !bok {
			return 0
		}
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	}

	if numericFieldOK(field) {
		av, bv := numericField(a, field), numericField(b, field)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}

	av, bv := stringField(a, field), stringField(b, field)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func numericFieldOK(field string) bool {
	switch field {
	case "id", "status", "type", "_cost", "purchase_cost":
		return true
	}
	return false
}

func numericField(t Transaction, field string) float64 {
	switch field {
	case "id":
		return float64(t.ID)
	case "status":
		return float64(t.Status)
	case "type":
		return float64(t.Type)
	case "_cost":
		return t.Cost.Float64()
	case "purchase_cost":
		return t.PurchaseCost.Float64()
	}
	return 0
}

func stringField(t Transaction, field string) string {
	switch field {
	case "title":
		return t.Title
	case "img":
		return t.Img
	case "created":
		return t.Created
	case "updated":
		return t.Updated
	case "confirmDate":
		return t.ConfirmDate
	case "doneAt":
		return t.DoneAt
	case "purchase_date":
		return t.PurchaseDate
	case "status_updated_at":
		return t.StatusUpdatedAt
	case "expected_delivery_date":
		return t.ExpectedDeliveryDate
	case "ngo_delivery_date":
		return t.NGODeliveryDate
	case "child_delivery_date":
		return t.ChildDeliveryDate
	}
	return ""
}

// Paginate slices rows to the requested zero-based page. Server-paginated
// inputs already hold the current page and pass through unchanged, as does
// a non-positive page size (show all).
func Paginate[T any](rows []T, page, pageSize int, serverSide bool) []T {
	if serverSide || pageSize <= 0 {
		return rows
	}
	if page < 0 {
		page = 0
	}
	start := page * pageSize
	if start >= len(rows) {
		return rows[:0]
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
