package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/medcard/medcard/internal/errs"
	"github.com/medcard/medcard/internal/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add creates a catalog entry. The existence pre-check gives a friendly
// message; the unique constraint remains the source of truth, so losing the
// race between check and insert still surfaces as a validation failure.
func (s *Service) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if !validate.DiagnosisText(text) {
		return errs.Validationf("invalid diagnosis name")
	}
	exists, err := s.repo.ExistsByText(ctx, text, 0)
	if err != nil {
		return err
	}
	if exists {
		return errs.Validationf("diagnosis %q already exists", text)
	}
	if _, err := s.repo.Insert(ctx, text); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return errs.Validationf("diagnosis %q already exists", text)
		}
		return err
	}
	return nil
}

// Rename replaces the text of an existing entry. Renaming to a text owned
// by a different entry is rejected; renaming an entry to its own text is a
// no-op and allowed.
func (s *Service) Rename(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if !validate.DiagnosisText(text) {
		return errs.Validationf("invalid diagnosis name")
	}
	exists, err := s.repo.ExistsByText(ctx, text, id)
	if err != nil {
		return err
	}
	if exists {
		return errs.Validationf("diagnosis %q already exists", text)
	}
	if err := s.repo.Update(ctx, id, text); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return errs.Validationf("diagnosis %q already exists", text)
		}
		return err
	}
	return nil
}

// Delete removes the catalog entry unconditionally. Assignment rows that
// reference it are left untouched; they drop out of patient history views.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Diagnosis, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// FindOrCreate resolves text to a catalog entry id, creating the entry on
// first use. Assignment flows call this so assigning never duplicates a
// catalog entry and never fails on an existing one.
func (s *Service) FindOrCreate(ctx context.Context, text string) (int64, error) {
	return s.repo.FindOrCreate(ctx, strings.TrimSpace(text))
}

// Texts returns every catalog text alphabetically, for autocomplete.
func (s *Service) Texts(ctx context.Context) ([]string, error) {
	return s.repo.Texts(ctx)
}
