package patient

import "context"

// Repository is the persistence boundary for patients and their diagnosis
// assignments. Absent rows are reported as pgx.ErrNoRows where the method
// resolves a single row; the service translates that into NotFoundError.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// Delete removes the patient and all of its assignment rows in one
	// transaction. Deleting a missing patient is a no-op.
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	// List returns patients ordered by family name ascending plus the
	// total row count.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)

	CreateAssignment(ctx context.Context, a *Assignment) error
	// DeleteAssignment removes the assignment and returns the owning
	// patient's id.
	DeleteAssignment(ctx context.Context, id int64) (int64, error)
	// DeleteAssignmentOwned removes the assignment only when it belongs
	// to patientID.
	DeleteAssignmentOwned(ctx context.Context, id, patientID int64) error
	// History returns a page of the patient's assignments joined with
	// catalog text, most recent date first, plus the total row count.
	History(ctx context.Context, patientID int64, limit, offset int) ([]*HistoryEntry, int, error)
}
