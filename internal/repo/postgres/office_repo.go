package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskhub/offices-api/internal/domain"
)

type OfficeRepository interface {
	List(ctx context.Context, f domain.OfficeFilter) ([]domain.Office, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Office, error)
	Create(ctx context.Context, ownerID int64, in *domain.OfficeCreate) (*domain.Office, error)
	Update(ctx context.Context, id int64, patch domain.OfficePatch, resetApproval bool) (*domain.Office, error)
}

type OfficeRepo struct{ pool *pgxpool.Pool }

func NewOfficeRepo(pool *pgxpool.Pool) *OfficeRepo { return &OfficeRepo{pool: pool} }

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so relation loading
// works inside and outside transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOffice(row scanner) (*domain.Office, error) {
	var o domain.Office
	var u domain.User
	err := row.Scan(
		&o.ID, &o.UserID, &o.Title, &o.Description, &o.AddressLine1,
		&o.Lat, &o.Lng, &o.PricePerDay, &o.MonthlyDiscount, &o.ApprovalStatus, &o.Hidden,
		&o.CreatedAt, &o.UpdatedAt,
		&u.ID, &u.Name, &u.Email, &u.IsAdmin,
		&o.ReservationsCount,
	)
	if err != nil {
		return nil, err
	}
	o.User = &u
	return &o, nil
}

func (r *OfficeRepo) List(ctx context.Context, f domain.OfficeFilter) ([]domain.Office, int64, error) {
	dataSQL, dataArgs, countSQL, countArgs := listQuery(f)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offices := make([]domain.Office, 0, domain.PageSize)
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, 0, err
		}
		offices = append(offices, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := loadRelations(ctx, r.pool, offices); err != nil {
		return nil, 0, err
	}

	return offices, total, nil
}

func (r *OfficeRepo) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	const q = `SELECT ` + officeCols + ` ` + officeFrom + ` WHERE o.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := scanOffice(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	single := []domain.Office{*o}
	if err := loadRelations(ctx, r.pool, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

func (r *OfficeRepo) Create(ctx context.Context, ownerID int64, in *domain.OfficeCreate) (*domain.Office, error) {
	// approval_status and user_id are server-controlled; client values for
	// either never reach this statement.
	const q = `INSERT INTO offices (
    user_id, title, description, address_line1,
    lat, lng, price_per_day, monthly_discount,
    approval_status, hidden
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending',false)
  RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, q, ownerID,
			in.Title, in.Description, in.AddressLine1,
			in.Lat, in.Lng, in.PricePerDay, in.MonthlyDiscount,
		).Scan(&id); err != nil {
			return err
		}

		if len(in.Tags) > 0 {
			_, err := tx.Exec(ctx,
				`INSERT INTO offices_tags (office_id, tag_id) SELECT $1, t FROM unnest($2::bigint[]) AS t`,
				id, in.Tags)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *OfficeRepo) Update(ctx context.Context, id int64, patch domain.OfficePatch, resetApproval bool) (*domain.Office, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		b := &builder{}
		sets := []string{`updated_at = now()`}

		if patch.Title != nil {
			sets = append(sets, `title = `+b.bind(*patch.Title))
		}
		if patch.Description != nil {
			sets = append(sets, `description = `+b.bind(*patch.Description))
		}
		if patch.Lat != nil {
			sets = append(sets, `lat = `+b.bind(*patch.Lat))
		}
		if patch.Lng != nil {
			sets = append(sets, `lng = `+b.bind(*patch.Lng))
		}
		if patch.AddressLine1 != nil {
			sets = append(sets, `address_line1 = `+b.bind(*patch.AddressLine1))
		}
		if patch.PricePerDay != nil {
			sets = append(sets, `price_per_day = `+b.bind(*patch.PricePerDay))
		}
		if patch.MonthlyDiscount != nil {
			sets = append(sets, `monthly_discount = `+b.bind(*patch.MonthlyDiscount))
		}
		if patch.Hidden != nil {
			sets = append(sets, `hidden = `+b.bind(*patch.Hidden))
		}
		if resetApproval {
			sets = append(sets, `approval_status = 'pending'`)
		}

		setClause := sets[0]
		for _, s := range sets[1:] {
			setClause += ", " + s
		}

		ct, err := tx.Exec(ctx, `UPDATE offices SET `+setClause+` WHERE id = `+b.bind(id), b.args...)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return domain.ErrNotFound
		}

		if patch.Tags != nil {
			return replaceTags(ctx, tx, id, *patch.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// replaceTags makes the association set exactly match ids: tags absent from
// the new list are detached, new ones attached, unchanged rows kept so their
// attachment order survives.
func replaceTags(ctx context.Context, q querier, officeID int64, ids []int64) error {
	if _, err := q.Exec(ctx,
		`DELETE FROM offices_tags WHERE office_id = $1 AND tag_id != ALL($2::bigint[])`,
		officeID, ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		`INSERT INTO offices_tags (office_id, tag_id)
     SELECT $1, t FROM unnest($2::bigint[]) AS t
     WHERE NOT EXISTS (
       SELECT 1 FROM offices_tags ot WHERE ot.office_id = $1 AND ot.tag_id = t
     )`,
		officeID, ids)
	return err
}

// loadRelations batch-loads tags and images for a page of offices, keeping
// tag attachment order (offices_tags.id) and image insertion order.
func loadRelations(ctx context.Context, q querier, offices []domain.Office) error {
	if len(offices) == 0 {
		return nil
	}

	ids := make([]int64, len(offices))
	byID := make(map[int64]*domain.Office, len(offices))
	for i := range offices {
		ids[i] = offices[i].ID
		byID[offices[i].ID] = &offices[i]
		offices[i].Tags = []domain.Tag{}
		offices[i].Images = []domain.Image{}
	}

	rows, err := q.Query(ctx,
		`SELECT ot.office_id, t.id, t.name
     FROM offices_tags ot JOIN tags t ON t.id = ot.tag_id
     WHERE ot.office_id = ANY($1::bigint[])
     ORDER BY ot.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var officeID int64
		var t domain.Tag
		if err := rows.Scan(&officeID, &t.ID, &t.Name); err != nil {
			return err
		}
		if o := byID[officeID]; o != nil {
			o.Tags = append(o.Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	imgRows, err := q.Query(ctx,
		`SELECT id, office_id, path FROM images WHERE office_id = ANY($1::bigint[]) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img domain.Image
		if err := imgRows.Scan(&img.ID, &img.OfficeID, &img.Path); err != nil {
			return err
		}
		if o := byID[img.OfficeID]; o != nil {
			o.Images = append(o.Images, img)
		}
	}
	return imgRows.Err()
}

var _ OfficeRepository = (*OfficeRepo)(nil)
