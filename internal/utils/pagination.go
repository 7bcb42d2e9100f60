package utils

const (
	// DefaultPageSize is used when a caller passes no or an invalid page size
	DefaultPageSize = 20
	// MaxPageSize caps any requested page size
	MaxPageSize = 100
)

// Page is one slice of a longer list plus the totals needed to render a pager.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns the 1-based page of items. Page numbers below 1 become 1,
// page sizes below 1 become DefaultPageSize and sizes above MaxPageSize are capped.
// A page past the end yields no items but keeps the totals.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	out := make([]T, 0, pageSize)
	// Compare pages before multiplying so a huge page number cannot overflow
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}
		out = append(out, items[start:end]...)
	}

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// DedupeBy keeps the first item for every distinct key, preserving order.
func DedupeBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

// Limit clamps n into [1, max], using def when n is not positive.
func Limit(n, def, max int) int {
	if n < 1 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}
