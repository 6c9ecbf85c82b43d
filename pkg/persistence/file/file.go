// Package file provides file-based persistence for routine documents: one
// JSON file per routine under <root>/routines.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root string
	repo *RoutineRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root: cleanRoot,
		repo: NewRoutineRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Routines(ctx context.Context) ([]*persistence.StoredRoutine, error) {
	return fp.repo.List(ctx)
}

func (fp *Persistence) RoutineByID(ctx context.Context, id string) (*models.Routine, error) {
	return fp.repo.GetByID(ctx, id)
}

func (fp *Persistence) SaveRoutine(ctx context.Context, id string, routine *models.Routine) error {
	return fp.repo.Save(ctx, id, routine)
}

func (fp *Persistence) DeleteRoutine(ctx context.Context, id string) error {
	return fp.repo.Delete(ctx, id)
}
