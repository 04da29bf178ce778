package patient

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patients (first_name, last_name, birth_date)
		VALUES ($1, $2, $3) RETURNING id`,
		p.FirstName, p.LastName, p.BirthDate).Scan(&p.ID)
}

// Delete removes the patient's assignment rows and then the patient itself
// in a single transaction, so a failure leaves both tables untouched.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM patient_diagnoses WHERE patient_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, birth_date
		FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, birth_date
		FROM patients ORDER BY last_name ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CreateAssignment(ctx context.Context, a *Assignment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient_diagnoses (patient_id, diagnosis_id, diagnosis_date)
		VALUES ($1, $2, $3) RETURNING id`,
		a.PatientID, a.DiagnosisID, a.Date).Scan(&a.ID)
}

func (r *repoPG) DeleteAssignment(ctx context.Context, id int64) (int64, error) {
	var patientID int64
	err := r.pool.QueryRow(ctx, `
		DELETE FROM patient_diagnoses WHERE id = $1 RETURNING patient_id`, id).
		Scan(&patientID)
	return patientID, err
}

func (r *repoPG) DeleteAssignmentOwned(ctx context.Context, id, patientID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM patient_diagnoses WHERE id = $1 AND patient_id = $2`, id, patientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// History joins assignments with the catalog. The INNER JOIN means rows
// whose catalog entry was deleted do not appear; the count matches the
// visible rows so pagination stays consistent.
func (r *repoPG) History(ctx context.Context, patientID int64, limit, offset int) ([]*HistoryEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM patient_diagnoses pd
		JOIN diagnoses d ON d.id = pd.diagnosis_id
		WHERE pd.patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT pd.id, d.diagnosis, pd.diagnosis_date
		FROM patient_diagnoses pd
		JOIN diagnoses d ON d.id = pd.diagnosis_id
		WHERE pd.patient_id = $1
		ORDER BY pd.diagnosis_date DESC, pd.id DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.Diagnosis, &h.Date); err != nil {
			return nil, 0, err
		}
		items = append(items, &h)
	}
	return items, total, rows.Err()
}
