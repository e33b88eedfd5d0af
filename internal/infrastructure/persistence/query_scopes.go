package persistence

import (
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns whitelists the columns a list endpoint may order by. Client
// supplied order fields never reach SQL unless they are listed here.
type sortColumns map[string]struct{}

func columns(names ...string) sortColumns {
	set := sortColumns{"id": {}, "created_at": {}, "updated_at": {}}
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

var (
	accountSort  = columns("name", "type", "balance")
	entrySort    = columns("date", "amount")
	employeeSort = columns("name", "email", "role", "department", "employee_type", "status", "hire_date")
	projectSort  = columns("name", "status", "start_date", "end_date")
	taskSort     = columns("title", "status", "priority", "due_date")
)

// orderBy returns "<column> ASC|DESC" for a whitelisted filter.OrderBy, or
// fallback when the field is empty or unknown.
func (s sortColumns) orderBy(filter shared.Filter, fallback string) string {
	field := strings.TrimSpace(filter.OrderBy)
	if _, ok := s[field]; !ok {
		return fallback
	}
	return field + " " + sortDirection(filter.OrderDir)
}

// sortDirection is ASC only when asked for explicitly
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// paginate applies OFFSET/LIMIT when the filter asks for a page
func paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Page < 1 || filter.PageSize < 1 {
			return db
		}
		return db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
}

// likePattern builds a case-insensitive LIKE pattern, matched against LOWER(column)
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
