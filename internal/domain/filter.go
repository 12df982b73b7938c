package domain

import "fmt"

// Filter is the catalog query state owned by the caller. An empty Category
// means all categories. Filters are passed by value and compared with ==, so
// an unchanged filter is trivially detectable.
type Filter struct {
	Query    string
	Category Category
	Page     int
	Size     int
}

// CacheKey returns a stable key identifying the result set for this filter.
func (f Filter) CacheKey() string {
	return fmt.Sprintf("catalog:page:q=%s&categoriaId=%s&page=%d&size=%d", f.Query, f.Category, f.Page, f.Size)
}

// IsSearch reports whether the filter carries a free-text query. Search
// results churn faster than category listings and are cached for less time.
func (f Filter) IsSearch() bool {
	return f.Query != ""
}
