package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/persistence"
)

const routinesDir = "routines"

// RoutineRepository handles routine document file operations.
type RoutineRepository struct {
	root string // File system root for storing routines
}

// NewRoutineRepository creates a new routine repository.
func NewRoutineRepository(root string) *RoutineRepository {
	return &RoutineRepository{root: root}
}

// List returns every stored routine, sorted by id for stable output.
func (rr *RoutineRepository) List(ctx context.Context) ([]*persistence.StoredRoutine, error) {
	root := os.DirFS(path.Join(rr.root, routinesDir))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list routine files: %w", err)
	}

	sort.Strings(jsonFiles)

	stored := make([]*persistence.StoredRoutine, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := strings.TrimSuffix(file, ".json")

		routine, err := rr.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load routine %s: %w", id, err)
		}

		if routine != nil {
			stored = append(stored, &persistence.StoredRoutine{ID: id, Routine: routine})
		}
	}

	return stored, nil
}

// GetByID retrieves a routine by its store id. Absence is nil, nil; the
// service layer decides whether that is an error.
func (rr *RoutineRepository) GetByID(_ context.Context, id string) (*models.Routine, error) {
	if err := validateID(id); err != nil {
		return nil, persistence.NewRoutineStoreError("GetByID", id, err)
	}

	filePath := filepath.Clean(path.Join(rr.root, routinesDir, id+".json"))

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}

	routine, err := models.Load(filePath)
	if err != nil {
		return nil, persistence.NewRoutineStoreError("GetByID", id, err)
	}

	return routine, nil
}

// Save writes a routine document to the file system. The underlying write is
// temp-and-rename, so concurrent readers never observe a partial document.
func (rr *RoutineRepository) Save(_ context.Context, id string, routine *models.Routine) error {
	if err := validateID(id); err != nil {
		return persistence.NewRoutineStoreError("Save", id, err)
	}

	dir := path.Join(rr.root, routinesDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create routines directory: %w", err)
	}

	if err := routine.Save(path.Join(dir, id+".json")); err != nil {
		return persistence.NewRoutineStoreError("Save", id, err)
	}

	return nil
}

// Delete removes a routine by its store id. Deleting an absent id is not an error.
func (rr *RoutineRepository) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return persistence.NewRoutineStoreError("Delete", id, err)
	}

	err := os.Remove(path.Join(rr.root, routinesDir, id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return persistence.NewRoutineStoreError("Delete", id, err)
	}

	return nil
}

// validateID rejects ids that would escape the routines directory.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", persistence.ErrInvalidRoutineID, id)
	}

	return nil
}
