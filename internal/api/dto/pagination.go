package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageMeta describes the window returned by a list endpoint. Count is the
// number of rows in scope, not the number on this page.
type PageMeta struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// MapItems converts domain rows with fn.
func MapItems[S any, T any](items []S, fn func(*S) T) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
