package model

// Page is one page of a list result plus what a pager needs to render controls.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// Paginate clamps a requested page number into [1, totalPages] and returns it together with the
// row offset and the page count. An empty result still has one (empty) page.
func Paginate(total int64, page, pageSize int) (clamped, offset, totalPages int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	clamped = page
	if clamped < 1 {
		clamped = 1
	}
	if clamped > totalPages {
		clamped = totalPages
	}
	return clamped, (clamped - 1) * pageSize, totalPages
}
