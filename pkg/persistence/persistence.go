// Package persistence provides the storage abstraction for routine documents.
package persistence

import (
	"context"

	"github.com/salem909/auton-maple/pkg/models"
)

// StoredRoutine pairs a routine document with its store id. The id is
// storage-level identity (the file stem in the file implementation); the
// document itself keeps the plain routine layout and carries no id field.
type StoredRoutine struct {
	ID      string          `json:"id"`
	Routine *models.Routine `json:"routine"`
}

type Persistence interface {
	Routines(ctx context.Context) ([]*StoredRoutine, error)
	RoutineByID(ctx context.Context, id string) (*models.Routine, error)
	SaveRoutine(ctx context.Context, id string, routine *models.Routine) error
	DeleteRoutine(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
