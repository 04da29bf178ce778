package catalog

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Insert and Update when the diagnosis text is
// already taken by another catalog entry.
var ErrDuplicate = errors.New("diagnosis text already exists")

// Repository is the persistence boundary for the diagnosis catalog.
type Repository interface {
	Insert(ctx context.Context, text string) (int64, error)
	Update(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
	// ExistsByText reports whether a catalog entry with the exact text
	// exists, ignoring the entry with excludeID (0 excludes nothing).
	ExistsByText(ctx context.Context, text string, excludeID int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Diagnosis, int, error)
	// FindOrCreate returns the id of the entry with the exact text,
	// inserting it first if absent. The lookup and insert are atomic.
	FindOrCreate(ctx context.Context, text string) (int64, error)
	// Texts returns all catalog texts in alphabetical order.
	Texts(ctx context.Context) ([]string, error)
}
