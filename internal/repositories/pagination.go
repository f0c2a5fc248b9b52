package repositories

// ListOptions carries pagination and sorting for listing queries.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Normalize clamps paging values and fills sorting defaults.
func (o ListOptions) Normalize(defaultSortBy, defaultOrder string) ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 || o.Limit > 100 {
		o.Limit = 10
	}
	if o.SortBy == "" {
		o.SortBy = defaultSortBy
	}
	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		o.SortOrder = defaultOrder
	}
	return o
}

// Offset returns the row offset for the current page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// OrderClause builds the ORDER BY fragment for a listing query. SortBy
// is caller input and must match one of the allowed column names
// exactly, else the default column is used; the direction is likewise
// constrained. Nothing else ever reaches the SQL text.
func (o ListOptions) OrderClause(defaultColumn string, allowed ...string) string {
	column := defaultColumn
	for _, c := range allowed {
		if o.SortBy == c {
			column = c
			break
		}
	}
	direction := o.SortOrder
	if direction != "asc" && direction != "desc" {
		direction = "desc"
	}
	return column + " " + direction
}

// TotalPages computes ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID   string   // matches legacy field OR membership in the category set
	Search       string   // free text over name/description/tags
	MinPrice     *float64
	MaxPrice     *float64
	Size         string   // exact size within the sizes list
	Color        string   // case-insensitive partial match
	FeaturedOnly bool
}

// UserFilter narrows user listings.
type UserFilter struct {
	Search   string // case-insensitive partial match on name or email
	Role     string
	IsActive *bool
}

// OrderFilter narrows order listings. A non-empty UserID scopes the
// listing to that owner's orders.
type OrderFilter struct {
	UserID string
	Status string
}
