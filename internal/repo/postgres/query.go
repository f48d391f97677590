package postgres

import (
	"strconv"
	"strings"

	"github.com/deskhub/offices-api/internal/domain"
)

// builder accumulates WHERE fragments and positional args so conditional
// filters compose into a single parameterized statement.
type builder struct {
	conds []string
	args  []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *builder) whereClause() string {
	return strings.Join(b.conds, " AND ")
}

const officeCols = `o.id, o.user_id, o.title, o.description, o.address_line1,
o.lat, o.lng, o.price_per_day, o.monthly_discount, o.approval_status, o.hidden,
o.created_at, o.updated_at,
u.id, u.name, u.email, u.is_admin,
(SELECT COUNT(*) FROM reservations r WHERE r.office_id = o.id AND r.status = 'active') AS reservations_count`

const officeFrom = `FROM offices o JOIN users u ON u.id = o.user_id`

// listQuery renders the public listing into a data query and a count query
// sharing the same predicates. The listing only ever exposes approved,
// visible offices; owner and visitor filters narrow within that set.
func listQuery(f domain.OfficeFilter) (dataSQL string, dataArgs []any, countSQL string, countArgs []any) {
	b := &builder{}

	b.where(`o.approval_status = 'approved'`)
	b.where(`o.hidden = false`)

	if f.UserID != nil {
		b.where(`o.user_id = ` + b.bind(*f.UserID))
	}
	if f.VisitorID != nil {
		b.where(`EXISTS (SELECT 1 FROM reservations r WHERE r.office_id = o.id AND r.user_id = ` + b.bind(*f.VisitorID) + `)`)
	}

	countSQL = `SELECT COUNT(*) ` + officeFrom + ` WHERE ` + b.whereClause()
	countArgs = append([]any(nil), b.args...)

	orderBy := `o.id ASC`
	if f.Near != nil {
		orderBy = distanceExpr(b, f.Near.Lat, f.Near.Lng) + ` ASC, o.id ASC`
	}

	dataSQL = `SELECT ` + officeCols + ` ` + officeFrom +
		` WHERE ` + b.whereClause() +
		` ORDER BY ` + orderBy +
		` LIMIT ` + strconv.Itoa(domain.PageSize) +
		` OFFSET ` + b.bind(f.Offset())
	dataArgs = b.args

	return dataSQL, dataArgs, countSQL, countArgs
}

// distanceExpr renders the spherical law-of-cosines distance in kilometers
// between the query point and each row, clamped so acos stays in domain.
// It matches the haversine used by internal/geo closely enough that both
// produce the same ordering.
func distanceExpr(b *builder, lat, lng float64) string {
	latP := b.bind(lat)
	lngP := b.bind(lng)
	latP2 := b.bind(lat)
	return `(6371 * acos(least(1.0, greatest(-1.0,` +
		` cos(radians(` + latP + `)) * cos(radians(o.lat)) * cos(radians(o.lng) - radians(` + lngP + `))` +
		` + sin(radians(` + latP2 + `)) * sin(radians(o.lat))))))`
}
