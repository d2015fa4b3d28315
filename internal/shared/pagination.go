package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"currentPage"`
	PerPage    int `json:"limit"`
	Total      int `json:"count"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// ServerSide reports whether a payload carries server pagination metadata,
// meaning the rows are already the current page.
func (p Pagination) ServerSide() bool {
	return p.Page > 0
}
