package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/persistence"
)

func testRoutine(t *testing.T) *models.Routine {
	t.Helper()

	routine := models.NewRoutine(models.Metadata{Name: "Test Route", MapName: "Dragon Canyon"})

	point := models.NewPointNode("node_0", models.Position{X: 100, Y: 100}, models.Position{X: 10, Y: 20})
	require.NoError(t, routine.AddNode(point))
	routine.StartNode = "node_0"

	return routine
}

func TestRoutineRepository_SaveAndGetByID(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "dragon-canyon", testRoutine(t)))

	loaded, err := repo.GetByID(ctx, "dragon-canyon")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Test Route", loaded.Metadata.Name)
	assert.Equal(t, "node_0", loaded.StartNode)
	assert.Len(t, loaded.Nodes, 1)
}

func TestRoutineRepository_GetByID_AbsentIsNilNil(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())

	loaded, err := repo.GetByID(context.Background(), "never-saved")

	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRoutineRepository_GetByID_RejectsPathEscapes(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())

	for _, id := range []string{"", "../outside", "a/b", `a\b`} {
		_, err := repo.GetByID(context.Background(), id)

		require.Error(t, err, "id %q", id)
		assert.True(t, persistence.IsInvalidRoutineID(err))
	}
}

func TestRoutineRepository_GetByID_CorruptDocument(t *testing.T) {
	root := t.TempDir()
	repo := NewRoutineRepository(root)

	dir := filepath.Join(root, "routines")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"nodes": "nope"}`), 0o600))

	_, err := repo.GetByID(context.Background(), "broken")

	require.Error(t, err)
	assert.True(t, models.IsInvalidDocument(err))
}

func TestRoutineRepository_List(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "beta", testRoutine(t)))
	require.NoError(t, repo.Save(ctx, "alpha", testRoutine(t)))

	stored, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, stored, 2)
	assert.Equal(t, "alpha", stored[0].ID, "listing is sorted by id")
	assert.Equal(t, "beta", stored[1].ID)
	assert.NotNil(t, stored[0].Routine)
}

func TestRoutineRepository_List_EmptyRoot(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())

	stored, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRoutineRepository_Delete(t *testing.T) {
	repo := NewRoutineRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "gone", testRoutine(t)))
	require.NoError(t, repo.Delete(ctx, "gone"))

	loaded, err := repo.GetByID(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting again is not an error.
	require.NoError(t, repo.Delete(ctx, "gone"))
}

func TestPersistence_Interface(t *testing.T) {
	root := t.TempDir()

	var p persistence.Persistence = NewPersistence(root)
	ctx := context.Background()

	require.NoError(t, p.HealthCheck(ctx))
	require.NoError(t, p.SaveRoutine(ctx, "r1", testRoutine(t)))

	loaded, err := p.RoutineByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	stored, err := p.Routines(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	require.NoError(t, p.DeleteRoutine(ctx, "r1"))
	require.NoError(t, p.Close(ctx))
}
