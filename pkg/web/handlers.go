// Package web provides HTTP handlers and REST API endpoints for routine management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/salem909/auton-maple/pkg/commandbook"
	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/services"
)

type APIHandlers struct {
	routineService *services.Routine
	nodeService    *services.Node
	validator      *validator.Validate
	book           *commandbook.Book
}

// NewAPIHandlers wires the handler set. The command book is optional; when
// nil the command endpoints report an empty book.
func NewAPIHandlers(
	routineService *services.Routine,
	nodeService *services.Node,
	validator *validator.Validate,
	book *commandbook.Book,
) *APIHandlers {
	return &APIHandlers{
		routineService: routineService,
		nodeService:    nodeService,
		validator:      validator,
		book:           book,
	}
}

func (h *APIHandlers) GetRoutines(c fiber.Ctx) error {
	summaries, err := h.routineService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(summaries)
}

func (h *APIHandlers) GetRoutine(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	routine, err := h.routineService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(routine)
}

func (h *APIHandlers) CreateRoutine(c fiber.Ctx) error {
	var req CreateRoutineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	metadata := models.Metadata{
		Name:        req.Name,
		Description: req.Description,
		Author:      req.Author,
		Version:     req.Version,
		MapName:     req.MapName,
	}

	id, routine, err := h.routineService.Create(c.Context(), metadata)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"routine": routine,
	})
}

func (h *APIHandlers) UpdateRoutine(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	var req UpdateRoutineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	patch := services.MetadataPatch{
		Name:        req.Name,
		Description: req.Description,
		Author:      req.Author,
		Version:     req.Version,
		MapName:     req.MapName,
	}

	updated, err := h.routineService.UpdateMetadata(c.Context(), id, patch)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteRoutine(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	if err := h.routineService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ImportRoutineCSV(c fiber.Ctx) error {
	var req ImportCSVRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	id, routine, err := h.routineService.ImportCSV(c.Context(), req.Name, []byte(req.CSV))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"routine": routine,
	})
}

func (h *APIHandlers) ExportRoutineCSV(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	out, err := h.routineService.ExportCSV(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")

	return c.SendString(out)
}

func (h *APIHandlers) ExportRoutineDOT(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	out, err := h.routineService.ExportDOT(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/vnd.graphviz; charset=utf-8")

	return c.SendString(out)
}

// GetRoutineOrder returns node ids in traversal order: the next chain from
// the start node first, then unreachable nodes in insertion order.
func (h *APIHandlers) GetRoutineOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	routine, err := h.routineService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	order := routine.ExecutionOrder()
	ids := make([]string, 0, len(order))

	for _, node := range order {
		ids = append(ids, node.Base().ID)
	}

	return c.JSON(fiber.Map{"order": ids})
}

// CheckRoutineCommands lints a routine's point commands against the
// configured command book.
func (h *APIHandlers) CheckRoutineCommands(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	routine, err := h.routineService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	var issues []string
	if h.book != nil {
		issues = h.book.Check(routine)
	}

	if issues == nil {
		issues = []string{}
	}

	return c.JSON(fiber.Map{"issues": issues})
}

func (h *APIHandlers) GetCommands(c fiber.Ctx) error {
	if h.book == nil {
		return c.JSON([]string{})
	}

	return c.JSON(h.book.Names())
}

func (h *APIHandlers) CreateNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	var req CreateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.Create(c.Context(), id, services.CreateNodeRequest{
		Kind:           models.NodeKind(req.Kind),
		EditorPosition: req.EditorPosition,
		GamePosition:   req.GamePosition,
		Label:          req.Label,
		TargetLabel:    req.TargetLabel,
		SettingKey:     req.SettingKey,
		SettingValue:   req.SettingValue,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(node)
}

func (h *APIHandlers) GetNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Routine ID and node ID are required")
	}

	node, err := h.nodeService.Get(c.Context(), id, nodeID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) UpdateNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Routine ID and node ID are required")
	}

	var req UpdateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.nodeService.Update(c.Context(), id, nodeID, services.UpdateNodeRequest{
		EditorPosition: req.EditorPosition,
		Next:           req.Next,
		GamePosition:   req.GamePosition,
		Commands:       req.Commands,
		Frequency:      req.Frequency,
		Skip:           req.Skip,
		Adjust:         req.Adjust,
		Label:          req.Label,
		TargetLabel:    req.TargetLabel,
		SettingKey:     req.SettingKey,
		SettingValue:   req.SettingValue,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(node)
}

func (h *APIHandlers) DeleteNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Routine ID and node ID are required")
	}

	if err := h.nodeService.Delete(c.Context(), id, nodeID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ConnectNode(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Routine ID and node ID are required")
	}

	var req ConnectNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.nodeService.Connect(c.Context(), id, nodeID, req.To); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) SetStartNode(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Routine ID is required")
	}

	var req SetStartRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.nodeService.SetStart(c.Context(), id, req.NodeID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.routineService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "AutoMaple API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "AutoMaple API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
