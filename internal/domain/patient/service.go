package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/medcard/medcard/internal/errs"
	"github.com/medcard/medcard/internal/validate"
)

// DiagnosisDirectory is the catalog dependency of the patient service. It
// resolves diagnosis text to a catalog id with find-or-create semantics and
// supplies the autocomplete texts for the patient card.
type DiagnosisDirectory interface {
	FindOrCreate(ctx context.Context, text string) (int64, error)
	Texts(ctx context.Context) ([]string, error)
}

type Service struct {
	repo      Repository
	diagnoses DiagnosisDirectory
}

func NewService(repo Repository, diagnoses DiagnosisDirectory) *Service {
	return &Service{repo: repo, diagnoses: diagnoses}
}

// Register validates all three fields before any write, normalizes the
// DD.MM.YYYY birth date, and inserts the patient.
func (s *Service) Register(ctx context.Context, firstName, lastName, birthDate string) error {
	if !validate.Name(firstName) {
		return errs.Validationf("invalid first name")
	}
	if !validate.LastName(lastName) {
		return errs.Validationf("invalid last name")
	}
	if !validate.BirthDate(birthDate) {
		return errs.Validationf("invalid birth date")
	}
	born, _ := validate.ParseBirthDate(birthDate)

	p := &Patient{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		BirthDate: born,
	}
	return s.repo.Create(ctx, p)
}

// Delete removes the patient together with its assignment rows. Unknown ids
// are a no-op, so deletion is idempotent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Assign links a diagnosis to the patient on the given date. The catalog
// entry is created on first use; assigning an already-cataloged text never
// fails on uniqueness. Every call inserts a new assignment row, including
// repeat assignments of the same diagnosis on another date.
func (s *Service) Assign(ctx context.Context, patientID int64, text, date string) error {
	if !validate.DiagnosisText(text) {
		return errs.Validationf("invalid diagnosis name")
	}
	if !validate.NotFutureDate(date) {
		return errs.Validationf("invalid assignment date")
	}
	when, _ := validate.ParseISODate(date)

	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NotFound("patient", patientID)
		}
		return err
	}

	diagnosisID, err := s.diagnoses.FindOrCreate(ctx, text)
	if err != nil {
		return err
	}

	return s.repo.CreateAssignment(ctx, &Assignment{
		PatientID:   patientID,
		DiagnosisID: diagnosisID,
		Date:        when,
	})
}

// Unassign deletes the assignment and returns the owning patient's id so
// the dispatcher can navigate back to the right patient page.
func (s *Service) Unassign(ctx context.Context, assignmentID int64) (int64, error) {
	patientID, err := s.repo.DeleteAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.NotFound("assignment", assignmentID)
		}
		return 0, err
	}
	return patientID, nil
}

// UnassignFrom is the patient-scoped entry point for the same operation:
// the assignment is deleted only when patientID owns it.
func (s *Service) UnassignFrom(ctx context.Context, patientID, assignmentID int64) error {
	if err := s.repo.DeleteAssignmentOwned(ctx, assignmentID, patientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NotFound("assignment", assignmentID)
		}
		return err
	}
	return nil
}

// Card returns the patient record, one page of diagnosis history, and the
// catalog texts for autocomplete.
func (s *Service) Card(ctx context.Context, patientID int64, limit, offset int) (*Card, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("patient", patientID)
		}
		return nil, err
	}

	history, total, err := s.repo.History(ctx, patientID, limit, offset)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.diagnoses.Texts(ctx)
	if err != nil {
		return nil, err
	}

	return &Card{
		Patient:     p,
		History:     history,
		Total:       total,
		Suggestions: suggestions,
	}, nil
}
