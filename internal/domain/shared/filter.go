package shared

// Filter carries the paging, ordering and free-text search of a list query.
// Filters holds exact-match criteria keyed by column name; repositories
// decide which keys they honor.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter is the first page of 20, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{},
	}
}
