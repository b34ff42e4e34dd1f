package repository

// PageInfo is the resolved pagination state for one listing request.
type PageInfo struct {
	// Page is the effective 1-based page actually served.
	Page int
	// Offset is the number of matching records to skip.
	Offset int
	// TotalPages is never below 1, even for an empty result set.
	TotalPages int
	// TotalItems is the count of records matching the filter before paging.
	TotalItems int
}

// PaginationFor resolves the requested page against the matching record
// count. The requested page is first normalized to at least 1 and then
// clamped to the last page, so out-of-range requests serve real content
// instead of an empty page.
func PaginationFor(totalItems, requestedPage, limit int) PageInfo {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if requestedPage < 1 {
		requestedPage = 1
	}

	totalPages := (totalItems + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	page := requestedPage
	if page > totalPages {
		page = totalPages
	}

	return PageInfo{
		Page:       page,
		Offset:     (page - 1) * limit,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}
