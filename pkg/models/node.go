// Package models defines the core domain models for flow-based bot routines.
package models

import (
	"encoding/json"
	"fmt"
)

// NodeKind represents the kind of a routine node.
type NodeKind string

const (
	NodeKindPoint   NodeKind = "point"   // A map position the bot visits and runs commands at
	NodeKindLabel   NodeKind = "label"   // A named jump target
	NodeKindJump    NodeKind = "jump"    // An unconditional branch to a label, by name
	NodeKindSetting NodeKind = "setting" // An out-of-band configuration change

	// NodeKindCondition is reserved for conditional branching. No producer
	// constructs it yet; documents carrying it decode through the generic
	// fallback in UnmarshalNode.
	NodeKindCondition NodeKind = "condition"
)

// Position is a 2D coordinate. Used both for editor layout and for in-game
// map positions.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Command is a named action attached to a point node. The type is resolved
// against the external command book at consumption time; params are untyped
// key/value pairs, unique per command.
type Command struct {
	Type   string         `json:"type"   validate:"required"`
	Params map[string]any `json:"params"`
}

// NodeBase carries the fields shared by every node kind. Next is a weak
// reference: it names another node's id but confers no ownership, and a
// dangling value means "no successor", never an error.
type NodeBase struct {
	ID             string   `json:"id"              validate:"required"`
	Type           NodeKind `json:"type"            validate:"required"`
	EditorPosition Position `json:"editor_position"`
	Next           *string  `json:"next"`
}

// Base returns the shared fields of the node.
func (b *NodeBase) Base() *NodeBase {
	return b
}

// Kind returns the node's type tag.
func (b *NodeBase) Kind() NodeKind {
	return b.Type
}

// NextID returns the successor id, or "" when the node is terminal.
func (b *NodeBase) NextID() string {
	if b.Next == nil {
		return ""
	}

	return *b.Next
}

// SetNext points the node at the given successor id. An empty id makes the
// node terminal.
func (b *NodeBase) SetNext(id string) {
	if id == "" {
		b.Next = nil

		return
	}

	b.Next = &id
}

// Node is the tagged union over all routine node kinds. Concrete types are
// PointNode, LabelNode, JumpNode, SettingNode and GenericNode.
type Node interface {
	Base() *NodeBase
	Kind() NodeKind
}

// PointNode is a place in the map the bot visits, with an ordered list of
// commands to run on arrival.
type PointNode struct {
	NodeBase

	GamePosition Position  `json:"game_position"`
	Commands     []Command `json:"commands"`
	Frequency    int       `json:"frequency" validate:"min=1"` // Visit every Nth pass
	Skip         bool      `json:"skip"`                       // Bot may skip this point
	Adjust       bool      `json:"adjust"`                     // Fine-correct position on arrival
}

// LabelNode is a named jump target. It carries no game action. Label names
// should be unique within a routine but are not enforced to be; jumps resolve
// name to node at consumption time.
type LabelNode struct {
	NodeBase

	Label string `json:"label"`
}

// JumpNode branches to the label node whose Label equals TargetLabel. The
// target is a label *name*, not a node id.
type JumpNode struct {
	NodeBase

	TargetLabel string `json:"target_label"`
	Frequency   int    `json:"frequency" validate:"min=1"`
	Skip        bool   `json:"skip"`
}

// SettingNode mutates an out-of-band bot setting when reached.
type SettingNode struct {
	NodeBase

	SettingKey   string `json:"setting_key"`
	SettingValue any    `json:"setting_value"`
}

// GenericNode holds a node whose type tag is not (yet) known. Keeping the
// base shape instead of failing keeps old builds forward-compatible with
// documents written by newer ones.
type GenericNode struct {
	NodeBase
}

// NewPointNode creates a point node with field defaults applied.
func NewPointNode(id string, editorPos, gamePos Position) *PointNode {
	return &PointNode{
		NodeBase:     NodeBase{ID: id, Type: NodeKindPoint, EditorPosition: editorPos},
		GamePosition: gamePos,
		Commands:     []Command{},
		Frequency:    1,
	}
}

// NewLabelNode creates a label node.
func NewLabelNode(id string, editorPos Position, label string) *LabelNode {
	return &LabelNode{
		NodeBase: NodeBase{ID: id, Type: NodeKindLabel, EditorPosition: editorPos},
		Label:    label,
	}
}

// NewJumpNode creates a jump node with field defaults applied.
func NewJumpNode(id string, editorPos Position, targetLabel string) *JumpNode {
	return &JumpNode{
		NodeBase:    NodeBase{ID: id, Type: NodeKindJump, EditorPosition: editorPos},
		TargetLabel: targetLabel,
		Frequency:   1,
	}
}

// NewSettingNode creates a setting node.
func NewSettingNode(id string, editorPos Position, key string, value any) *SettingNode {
	return &SettingNode{
		NodeBase:     NodeBase{ID: id, Type: NodeKindSetting, EditorPosition: editorPos},
		SettingKey:   key,
		SettingValue: value,
	}
}

// UnmarshalNode decodes a single node document, dispatching on the "type"
// discriminator. Unknown tags decode to a GenericNode rather than failing.
// Unknown extra fields are tolerated on every kind.
func UnmarshalNode(data []byte) (Node, error) {
	var probe struct {
		Type NodeKind `json:"type"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	switch probe.Type {
	case NodeKindPoint:
		node := &PointNode{Frequency: 1}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("decode point node: %w", err)
		}

		return node, nil
	case NodeKindLabel:
		node := &LabelNode{}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("decode label node: %w", err)
		}

		return node, nil
	case NodeKindJump:
		node := &JumpNode{Frequency: 1}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("decode jump node: %w", err)
		}

		return node, nil
	case NodeKindSetting:
		node := &SettingNode{}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("decode setting node: %w", err)
		}

		return node, nil
	default:
		node := &GenericNode{}
		if err := json.Unmarshal(data, node); err != nil {
			return nil, fmt.Errorf("decode node: %w", err)
		}

		return node, nil
	}
}
