package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salem909/auton-maple/pkg/converter"
	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/persistence"
)

var (
	// ErrRoutineNotFound is returned when a routine is not found.
	ErrRoutineNotFound = persistence.ErrRoutineNotFound
)

// Routine is the service for whole-routine operations: CRUD, CSV import and
// the export formats the editor offers.
type Routine struct {
	persistence persistence.Persistence
}

// NewRoutine creates a new routine service.
func NewRoutine(persistence persistence.Persistence) *Routine {
	return &Routine{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Routine) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Summary is the listing view of a stored routine.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MapName     string `json:"map_name"`
	NodeCount   int    `json:"node_count"`
	Modified    string `json:"modified"`
}

// List returns a summary for every stored routine.
func (s *Routine) List(ctx context.Context) ([]Summary, error) {
	stored, err := s.persistence.Routines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}

	summaries := make([]Summary, 0, len(stored))
	for _, entry := range stored {
		summaries = append(summaries, Summary{
			ID:          entry.ID,
			Name:        entry.Routine.Metadata.Name,
			Description: entry.Routine.Metadata.Description,
			MapName:     entry.Routine.Metadata.MapName,
			NodeCount:   len(entry.Routine.Nodes),
			Modified:    entry.Routine.Metadata.Modified,
		})
	}

	return summaries, nil
}

// FetchByID retrieves a routine by its store id.
func (s *Routine) FetchByID(ctx context.Context, id string) (*models.Routine, error) {
	routine, err := s.persistence.RoutineByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if routine == nil {
		return nil, ErrRoutineNotFound
	}

	return routine, nil
}

// Create stores a new empty routine and returns its store id.
func (s *Routine) Create(ctx context.Context, metadata models.Metadata) (string, *models.Routine, error) {
	if strings.TrimSpace(metadata.Name) == "" {
		metadata.Name = "Untitled Routine"
	}

	if metadata.Version == "" {
		metadata.Version = "1.0"
	}

	now := time.Now().UTC().Format(time.RFC3339)
	metadata.Created = now
	metadata.Modified = now

	id := uuid.New().String()
	routine := models.NewRoutine(metadata)

	if err := s.persistence.SaveRoutine(ctx, id, routine); err != nil {
		return "", nil, fmt.Errorf("failed to create routine: %w", err)
	}

	return id, routine, nil
}

// MetadataPatch carries partial metadata updates; nil fields stay untouched.
type MetadataPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Author      *string `json:"author,omitempty"`
	Version     *string `json:"version,omitempty"`
	MapName     *string `json:"map_name,omitempty"`
}

// UpdateMetadata applies a partial metadata update to a stored routine.
func (s *Routine) UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) (*models.Routine, error) {
	routine, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		routine.Metadata.Name = *patch.Name
	}

	if patch.Description != nil {
		routine.Metadata.Description = *patch.Description
	}

	if patch.Author != nil {
		routine.Metadata.Author = *patch.Author
	}

	if patch.Version != nil {
		routine.Metadata.Version = *patch.Version
	}

	if patch.MapName != nil {
		routine.Metadata.MapName = *patch.MapName
	}

	if err := s.save(ctx, id, routine); err != nil {
		return nil, err
	}

	return routine, nil
}

// Delete removes a routine by its store id.
func (s *Routine) Delete(ctx context.Context, id string) error {
	if _, err := s.FetchByID(ctx, id); err != nil {
		return err
	}

	if err := s.persistence.DeleteRoutine(ctx, id); err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}

	return nil
}

// ImportCSV parses legacy CSV content into a new stored routine.
func (s *Routine) ImportCSV(ctx context.Context, name string, csvContent []byte) (string, *models.Routine, error) {
	if strings.TrimSpace(name) == "" {
		name = "Imported Routine"
	}

	now := time.Now().UTC().Format(time.RFC3339)
	metadata := models.Metadata{
		Name:        name,
		Description: "Imported from CSV",
		Author:      "AutoMaple",
		Version:     "1.0",
		Created:     now,
		Modified:    now,
	}

	routine, err := converter.ParseCSV(strings.NewReader(string(csvContent)), metadata)
	if err != nil {
		return "", nil, NewValidationError("ImportCSV", err.Error(), ErrInvalidRequest)
	}

	id := uuid.New().String()
	if err := s.persistence.SaveRoutine(ctx, id, routine); err != nil {
		return "", nil, fmt.Errorf("failed to store imported routine: %w", err)
	}

	return id, routine, nil
}

// ExportCSV renders a stored routine in the legacy CSV format.
func (s *Routine) ExportCSV(ctx context.Context, id string) (string, error) {
	routine, err := s.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}

	return converter.ToCSV(routine), nil
}

// ExportDOT renders a stored routine as a Graphviz DOT graph.
func (s *Routine) ExportDOT(ctx context.Context, id string) (string, error) {
	routine, err := s.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}

	return converter.ToDOT(routine)
}

// save persists the routine with a fresh modified timestamp.
func (s *Routine) save(ctx context.Context, id string, routine *models.Routine) error {
	routine.Metadata.Modified = time.Now().UTC().Format(time.RFC3339)

	if err := s.persistence.SaveRoutine(ctx, id, routine); err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}

	return nil
}
