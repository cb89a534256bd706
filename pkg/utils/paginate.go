package utils

import "strconv"

// Pagination describes one page of a collection.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// ParsePage interprets a caller-supplied page parameter. Anything that is not
// a positive integer clamps to page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate clamps the requested page against the collection size and returns
// the page metadata plus the offset to query at. A page beyond the last page
// clamps to the last page, never an out-of-range error. The page size is
// honored as given; callers decide whether to cap it.
func Paginate(total int64, page, pageSize int) (Pagination, int) {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, (page - 1) * pageSize
}
