package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *repoPG) Insert(ctx context.Context, text string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO diagnoses (diagnosis) VALUES ($1) RETURNING id`, text).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	return id, err
}

func (r *repoPG) Update(ctx context.Context, id int64, text string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE diagnoses SET diagnosis = $2 WHERE id = $1`, id, text)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagnoses WHERE id = $1`, id)
	return err
}

func (r *repoPG) ExistsByText(ctx context.Context, text string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM diagnoses WHERE diagnosis = $1 AND id <> $2)`,
		text, excludeID).Scan(&exists)
	return exists, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Diagnosis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnoses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, diagnosis FROM diagnoses ORDER BY diagnosis ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.ID, &d.Text); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}

// FindOrCreate upserts on the diagnosis unique constraint so two
// concurrent calls with the same new text resolve to a single row. The
// no-op DO UPDATE makes RETURNING yield the id on the conflict path too.
func (r *repoPG) FindOrCreate(ctx context.Context, text string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO diagnoses (diagnosis) VALUES ($1)
		ON CONFLICT (diagnosis) DO UPDATE SET diagnosis = EXCLUDED.diagnosis
		RETURNING id`, text).Scan(&id)
	return id, err
}

func (r *repoPG) Texts(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT diagnosis FROM diagnoses ORDER BY diagnosis ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var texts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}
