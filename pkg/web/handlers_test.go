package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salem909/auton-maple/pkg/persistence/file"
	"github.com/salem909/auton-maple/pkg/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	handlers := NewAPIHandlers(
		services.NewRoutine(p),
		services.NewNode(p),
		validator.New(validator.WithRequiredStructEnabled()),
		nil,
	)

	app := fiber.New()

	r := app.Group("/routines")
	r.Get("/", handlers.GetRoutines)
	r.Post("/", handlers.CreateRoutine)
	r.Post("/import", handlers.ImportRoutineCSV)
	r.Get("/:id", handlers.GetRoutine)
	r.Patch("/:id", handlers.UpdateRoutine)
	r.Delete("/:id", handlers.DeleteRoutine)
	r.Get("/:id/export/csv", handlers.ExportRoutineCSV)
	r.Get("/:id/export/dot", handlers.ExportRoutineDOT)
	r.Get("/:id/order", handlers.GetRoutineOrder)
	r.Put("/:id/start", handlers.SetStartNode)
	r.Post("/:id/nodes", handlers.CreateNode)
	r.Get("/:id/nodes/:nodeId", handlers.GetNode)
	r.Patch("/:id/nodes/:nodeId", handlers.UpdateNode)
	r.Delete("/:id/nodes/:nodeId", handlers.DeleteNode)
	r.Post("/:id/nodes/:nodeId/connect", handlers.ConnectNode)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	})

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createRoutine(t *testing.T, app *fiber.App, name string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/routines/", CreateRoutineRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}

	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)

	return created.ID
}

func TestAPI_ListRoutines_Empty(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/routines/", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []services.Summary

	decodeBody(t, resp, &summaries)
	assert.Empty(t, summaries)
}

func TestAPI_CreateAndGetRoutine(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "Dragon Canyon")

	resp := doJSON(t, app, http.MethodGet, "/routines/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var routine struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
		StartNode string `json:"start_node"`
	}

	decodeBody(t, resp, &routine)
	assert.Equal(t, "Dragon Canyon", routine.Metadata.Name)
}

func TestAPI_CreateRoutine_MissingName(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/routines/", map[string]string{"description": "no name"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetRoutine_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/routines/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UpdateRoutineMetadata(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "Before")

	name := "After"
	resp := doJSON(t, app, http.MethodPatch, "/routines/"+id, UpdateRoutineRequest{Name: &name})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var routine struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	}

	decodeBody(t, resp, &routine)
	assert.Equal(t, "After", routine.Metadata.Name)
}

func TestAPI_DeleteRoutine(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "gone")

	resp := doJSON(t, app, http.MethodDelete, "/routines/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/routines/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ImportCSVAndExport(t *testing.T) {
	app := newTestApp(t)

	csv := "*, x=100, y=200\n    attack\n@, label=main_loop\n>, label=main_loop\n"
	resp := doJSON(t, app, http.MethodPost, "/routines/import", ImportCSVRequest{Name: "legacy", CSV: csv})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}

	decodeBody(t, resp, &created)

	resp = doJSON(t, app, http.MethodGet, "/routines/"+created.ID+"/export/csv", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "*, x=100, y=200")

	resp = doJSON(t, app, http.MethodGet, "/routines/"+created.ID+"/export/dot", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "digraph routine")
}

func TestAPI_ImportCSV_ParseError(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/routines/import", ImportCSVRequest{Name: "bad", CSV: "*, x=oops, y=2\n"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_NodeLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "editing")

	resp := doJSON(t, app, http.MethodPost, "/routines/"+id+"/nodes", CreateNodeRequest{Kind: "point"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var point struct {
		ID string `json:"id"`
	}

	decodeBody(t, resp, &point)
	require.NotEmpty(t, point.ID)

	resp = doJSON(t, app, http.MethodPost, "/routines/"+id+"/nodes", CreateNodeRequest{Kind: "label", Label: "main_loop"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var label struct {
		ID string `json:"id"`
	}

	decodeBody(t, resp, &label)

	resp = doJSON(t, app, http.MethodPost, "/routines/"+id+"/nodes/"+point.ID+"/connect", ConnectNodeRequest{To: label.ID})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/routines/"+id+"/start", SetStartRequest{NodeID: point.ID})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/routines/"+id+"/order", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		Order []string `json:"order"`
	}

	decodeBody(t, resp, &order)
	assert.Equal(t, []string{point.ID, label.ID}, order.Order)

	frequency := 2
	resp = doJSON(t, app, http.MethodPatch, "/routines/"+id+"/nodes/"+point.ID, UpdateNodeRequest{Frequency: &frequency})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated struct {
		Frequency int `json:"frequency"`
	}

	decodeBody(t, resp, &updated)
	assert.Equal(t, 2, updated.Frequency)

	resp = doJSON(t, app, http.MethodDelete, "/routines/"+id+"/nodes/"+label.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/routines/"+id+"/nodes/"+label.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CreateNode_UnknownKind(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "editing")

	resp := doJSON(t, app, http.MethodPost, "/routines/"+id+"/nodes", map[string]string{"kind": "teleport"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_UpdateNode_BadFrequency(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "editing")

	resp := doJSON(t, app, http.MethodPost, "/routines/"+id+"/nodes", CreateNodeRequest{Kind: "point"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var point struct {
		ID string `json:"id"`
	}

	decodeBody(t, resp, &point)

	frequency := 0
	resp = doJSON(t, app, http.MethodPatch, "/routines/"+id+"/nodes/"+point.ID, UpdateNodeRequest{Frequency: &frequency})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SetStart_MissingNode(t *testing.T) {
	app := newTestApp(t)
	id := createRoutine(t, app, "editing")

	resp := doJSON(t, app, http.MethodPut, "/routines/"+id+"/start", SetStartRequest{NodeID: "ghost"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}

	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
}
