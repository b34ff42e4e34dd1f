package repository

import (
	"strings"
)

const (
	// DefaultPageSize is the number of products per page when the caller
	// supplies no limit or a non-positive one.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)

// SortField names a column the listing may be ordered by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCategory  SortField = "category"
	SortByCreatedAt SortField = "created_at"
)

// ProductQuery is the normalized set of filter, sort and page parameters
// derived from a listing request. Build one with ParseProductQuery so the
// defaults and clamps are applied consistently.
type ProductQuery struct {
	// Search filters products whose name or description contains the term
	// case-insensitively. Empty means no search filter.
	Search string
	// Categories restricts matches to products whose category is in the set.
	// Empty means no category filter.
	Categories []string
	// Sort is the column to order by; empty means natural insertion order.
	Sort SortField
	// Descending orders the sort column high-to-low when true.
	Descending bool
	// Page is the 1-based requested page.
	Page int
	// Limit is the page size.
	Limit int
}

// ParseProductQuery normalizes raw request parameters into a ProductQuery.
// Malformed values are never rejected: unknown sort fields fall back to
// natural order, non-positive pages fall back to 1 and non-positive limits
// fall back to DefaultPageSize.
func ParseProductQuery(search, categories, sort, order string, page, limit int) ProductQuery {
	q := ProductQuery{
		Search:     strings.TrimSpace(search),
		Categories: splitCategories(categories),
		Descending: order == "desc",
		Page:       page,
		Limit:      limit,
	}

	if field := SortField(sort); isSortable(field) {
		q.Sort = field
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	return q
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var categories []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

func isSortable(field SortField) bool {
	switch field {
	case SortByName, SortByPrice, SortByCategory, SortByCreatedAt:
		return true
	}
	return false
}
