package requests

// DefaultPageSize is the single page size used across the management
// views. The source system used 5 in one view and 8 in another; it is
// unified here and overridable via configuration.
const DefaultPageSize = 8

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginate slices items into the requested 1-based page. The page number
// is clamped to [1, max(1, totalPages)] so a shrinking result set never
// leaves the caller on an out-of-range empty page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(items) + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > max(totalPages, 1) {
		page = max(totalPages, 1)
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}
