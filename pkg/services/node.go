package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/salem909/auton-maple/pkg/models"
	"github.com/salem909/auton-maple/pkg/persistence"
)

// ErrNodeNotFound is returned when a node is not found within a routine.
var ErrNodeNotFound = errors.New("node not found")

// Node is the service for node-level editor operations on a stored routine.
// Each operation loads the document, mutates it through the model's public
// API and saves it back whole, matching the model's single-owner design.
type Node struct {
	persistence persistence.Persistence
	routines    *Routine
}

// NewNode creates a new node service.
func NewNode(persistence persistence.Persistence) *Node {
	return &Node{
		persistence: persistence,
		routines:    NewRoutine(persistence),
	}
}

// CreateNodeRequest describes a node to add. Kind selects the variant;
// fields that do not apply to the kind are ignored.
type CreateNodeRequest struct {
	Kind           models.NodeKind `json:"kind"            validate:"required,oneof=point label jump setting"`
	EditorPosition models.Position `json:"editor_position"`
	GamePosition   models.Position `json:"game_position"`
	Label          string          `json:"label"`
	TargetLabel    string          `json:"target_label"`
	SettingKey     string          `json:"setting_key"`
	SettingValue   any             `json:"setting_value"`
}

// Create adds a new node to a stored routine and returns it. Node ids are
// generated here, so the model's duplicate-id rejection cannot trip for
// editor-created nodes.
func (s *Node) Create(ctx context.Context, routineID string, req CreateNodeRequest) (models.Node, error) {
	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()

	var node models.Node

	switch req.Kind {
	case models.NodeKindPoint:
		node = models.NewPointNode(id, req.EditorPosition, req.GamePosition)
	case models.NodeKindLabel:
		node = models.NewLabelNode(id, req.EditorPosition, req.Label)
	case models.NodeKindJump:
		node = models.NewJumpNode(id, req.EditorPosition, req.TargetLabel)
	case models.NodeKindSetting:
		node = models.NewSettingNode(id, req.EditorPosition, req.SettingKey, req.SettingValue)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, req.Kind)
	}

	if err := routine.AddNode(node); err != nil {
		return nil, fmt.Errorf("failed to add node: %w", err)
	}

	if err := s.routines.save(ctx, routineID, routine); err != nil {
		return nil, err
	}

	return node, nil
}

// Get returns a single node of a stored routine.
func (s *Node) Get(ctx context.Context, routineID, nodeID string) (models.Node, error) {
	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return nil, err
	}

	node := routine.GetNode(nodeID)
	if node == nil {
		return nil, ErrNodeNotFound
	}

	return node, nil
}

// UpdateNodeRequest carries partial node updates; nil fields stay untouched.
// Fields that do not apply to the node's kind are ignored.
type UpdateNodeRequest struct {
	EditorPosition *models.Position  `json:"editor_position,omitempty"`
	Next           *string           `json:"next,omitempty"` // empty string clears the link
	GamePosition   *models.Position  `json:"game_position,omitempty"`
	Commands       *[]models.Command `json:"commands,omitempty"`
	Frequency      *int              `json:"frequency,omitempty"`
	Skip           *bool             `json:"skip,omitempty"`
	Adjust         *bool             `json:"adjust,omitempty"`
	Label          *string           `json:"label,omitempty"`
	TargetLabel    *string           `json:"target_label,omitempty"`
	SettingKey     *string           `json:"setting_key,omitempty"`
	SettingValue   *any              `json:"setting_value,omitempty"`
}

// Update applies a partial update to a node and returns the updated node.
func (s *Node) Update(ctx context.Context, routineID, nodeID string, req UpdateNodeRequest) (models.Node, error) {
	if req.Frequency != nil && *req.Frequency < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFrequency, *req.Frequency)
	}

	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return nil, err
	}

	node := routine.GetNode(nodeID)
	if node == nil {
		return nil, ErrNodeNotFound
	}

	if req.EditorPosition != nil {
		node.Base().EditorPosition = *req.EditorPosition
	}

	if req.Next != nil {
		node.Base().SetNext(*req.Next)
	}

	applyKindFields(node, req)

	if err := s.routines.save(ctx, routineID, routine); err != nil {
		return nil, err
	}

	return node, nil
}

func applyKindFields(node models.Node, req UpdateNodeRequest) {
	switch n := node.(type) {
	case *models.PointNode:
		if req.GamePosition != nil {
			n.GamePosition = *req.GamePosition
		}

		if req.Commands != nil {
			n.Commands = *req.Commands
		}

		if req.Frequency != nil {
			n.Frequency = *req.Frequency
		}

		if req.Skip != nil {
			n.Skip = *req.Skip
		}

		if req.Adjust != nil {
			n.Adjust = *req.Adjust
		}

	case *models.LabelNode:
		if req.Label != nil {
			n.Label = *req.Label
		}

	case *models.JumpNode:
		if req.TargetLabel != nil {
			n.TargetLabel = *req.TargetLabel
		}

		if req.Frequency != nil {
			n.Frequency = *req.Frequency
		}

		if req.Skip != nil {
			n.Skip = *req.Skip
		}

	case *models.SettingNode:
		if req.SettingKey != nil {
			n.SettingKey = *req.SettingKey
		}

		if req.SettingValue != nil {
			n.SettingValue = *req.SettingValue
		}
	}
}

// Delete removes a node. The model clears every next pointer that referenced
// it as part of the removal.
func (s *Node) Delete(ctx context.Context, routineID, nodeID string) error {
	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return err
	}

	if routine.GetNode(nodeID) == nil {
		return ErrNodeNotFound
	}

	routine.RemoveNode(nodeID)

	if routine.StartNode == nodeID {
		routine.StartNode = ""
	}

	return s.routines.save(ctx, routineID, routine)
}

// Connect wires fromID's next pointer to toID. The model itself no-ops on a
// missing source; the editor wants that failure visible, so existence is
// checked here. The target may dangle, next links are weak references.
func (s *Node) Connect(ctx context.Context, routineID, fromID, toID string) error {
	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return err
	}

	if routine.GetNode(fromID) == nil {
		return ErrNodeNotFound
	}

	routine.ConnectNodes(fromID, toID)

	return s.routines.save(ctx, routineID, routine)
}

// SetStart points the routine's start pointer at an existing node.
func (s *Node) SetStart(ctx context.Context, routineID, nodeID string) error {
	routine, err := s.routines.FetchByID(ctx, routineID)
	if err != nil {
		return err
	}

	if routine.GetNode(nodeID) == nil {
		return ErrNodeNotFound
	}

	routine.StartNode = nodeID

	return s.routines.save(ctx, routineID, routine)
}
