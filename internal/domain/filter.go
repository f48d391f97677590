package domain

import "github.com/deskhub/offices-api/internal/geo"

// PageSize is the fixed page size of the public listing endpoint.
const PageSize = 20

// OfficeFilter is the parsed query surface of GET /offices. The public
// approved-and-visible restriction is not represented here; the repository
// applies it unconditionally. UserID narrows further, it never bypasses.
type OfficeFilter struct {
	UserID    *int64
	VisitorID *int64
	Near      *geo.Point
	Page      int
}

func (f *OfficeFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
