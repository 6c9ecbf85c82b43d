// Package web provides HTTP request and response types for the routine API.
package web

import "github.com/salem909/auton-maple/pkg/models"

// CreateRoutineRequest represents the request body for creating a new routine.
type CreateRoutineRequest struct {
	Name        string `json:"name"        validate:"required,min=1"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Version     string `json:"version"`
	MapName     string `json:"map_name"`
}

// UpdateRoutineRequest represents the request body for updating routine
// metadata. All fields are optional to support partial updates.
type UpdateRoutineRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Author      *string `json:"author,omitempty"`
	Version     *string `json:"version,omitempty"`
	MapName     *string `json:"map_name,omitempty"`
}

// CreateNodeRequest represents the request body for adding a node to a
// routine. Kind selects the variant; only the fields for that kind apply.
type CreateNodeRequest struct {
	Kind           string          `json:"kind"            validate:"required,oneof=point label jump setting"`
	EditorPosition models.Position `json:"editor_position"`
	GamePosition   models.Position `json:"game_position"`
	Label          string          `json:"label"`
	TargetLabel    string          `json:"target_label"`
	SettingKey     string          `json:"setting_key"`
	SettingValue   any             `json:"setting_value"`
}

// UpdateNodeRequest represents the request body for a partial node update.
// The node's kind cannot be changed.
type UpdateNodeRequest struct {
	EditorPosition *models.Position  `json:"editor_position,omitempty"`
	Next           *string           `json:"next,omitempty"`
	GamePosition   *models.Position  `json:"game_position,omitempty"`
	Commands       *[]models.Command `json:"commands,omitempty"`
	Frequency      *int              `json:"frequency,omitempty" validate:"omitempty,min=1"`
	Skip           *bool             `json:"skip,omitempty"`
	Adjust         *bool             `json:"adjust,omitempty"`
	Label          *string           `json:"label,omitempty"`
	TargetLabel    *string           `json:"target_label,omitempty"`
	SettingKey     *string           `json:"setting_key,omitempty"`
	SettingValue   *any              `json:"setting_value,omitempty"`
}

// ConnectNodeRequest represents the request body for wiring a node's next
// pointer. The target is a weak reference and may not exist yet.
type ConnectNodeRequest struct {
	To string `json:"to" validate:"required"`
}

// SetStartRequest represents the request body for moving the routine's
// start pointer.
type SetStartRequest struct {
	NodeID string `json:"node_id" validate:"required"`
}

// ImportCSVRequest represents the request body for importing a legacy CSV
// routine.
type ImportCSVRequest struct {
	Name string `json:"name"`
	CSV  string `json:"csv"  validate:"required"`
}
