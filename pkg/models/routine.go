package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Metadata describes a routine. Purely descriptive, no behavioral invariants.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Version     string `json:"version"`
	MapName     string `json:"map_name"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
}

// Routine is a complete automation script: metadata, an insertion-ordered
// node set and a start pointer. The node slice order is edit history;
// execution order is derived by following next links from StartNode.
type Routine struct {
	Metadata  Metadata `json:"metadata"`
	StartNode string   `json:"start_node"`
	Nodes     []Node   `json:"nodes"`
}

// NewRoutine creates an empty routine with the given metadata.
func NewRoutine(metadata Metadata) *Routine {
	return &Routine{
		Metadata: metadata,
		Nodes:    []Node{},
	}
}

// GetNode returns the node with the given id, or nil when absent. Absence is
// not an error; next links and start pointers are allowed to dangle.
func (r *Routine) GetNode(id string) Node {
	for _, node := range r.Nodes {
		if node.Base().ID == id {
			return node
		}
	}

	return nil
}

// AddNode appends a node to the routine. It does not wire the node into any
// next chain; callers are responsible for ordering. A node whose id is
// already in use is rejected with ErrDuplicateNodeID, since a silent
// duplicate would make every later GetNode ambiguous.
func (r *Routine) AddNode(node Node) error {
	id := node.Base().ID
	if r.GetNode(id) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}

	r.Nodes = append(r.Nodes, node)

	return nil
}

// RemoveNode removes the node with the given id and clears every other
// node's next pointer that referenced it. The cleanup is part of the removal;
// no node is ever left pointing at a removed id.
func (r *Routine) RemoveNode(id string) {
	kept := r.Nodes[:0]

	for _, node := range r.Nodes {
		if node.Base().ID != id {
			kept = append(kept, node)
		}
	}

	r.Nodes = kept

	for _, node := range r.Nodes {
		if node.Base().NextID() == id {
			node.Base().SetNext("")
		}
	}
}

// ConnectNodes sets fromID's next pointer to toID. A missing fromID is a
// silent no-op; callers that need failure visible must check existence first.
func (r *Routine) ConnectNodes(fromID, toID string) {
	if from := r.GetNode(fromID); from != nil {
		from.Base().SetNext(toID)
	}
}

// ExecutionOrder returns the nodes in derived execution order: the next-chain
// walk from StartNode, with a visited guard so user-edited cycles terminate,
// followed by any unreached node in insertion order. Every node appears
// exactly once.
func (r *Routine) ExecutionOrder() []Node {
	visited := make(map[string]bool, len(r.Nodes))
	ordered := make([]Node, 0, len(r.Nodes))

	for id := r.StartNode; id != "" && !visited[id]; {
		node := r.GetNode(id)
		if node == nil {
			break
		}

		visited[id] = true
		ordered = append(ordered, node)
		id = node.Base().NextID()
	}

	for _, node := range r.Nodes {
		if !visited[node.Base().ID] {
			ordered = append(ordered, node)
		}
	}

	return ordered
}

// Validate checks structural invariants: unique node ids plus the per-kind
// struct tag rules (required fields, frequency >= 1). Dangling next links and
// start pointers are legal and not reported.
func (r *Routine) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	seen := make(map[string]bool, len(r.Nodes))

	for i, node := range r.Nodes {
		id := node.Base().ID
		if seen[id] {
			return fmt.Errorf("node %d: %w: %s", i, ErrDuplicateNodeID, id)
		}

		seen[id] = true

		if err := validate.Struct(node); err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
	}

	return nil
}

// UnmarshalJSON decodes a routine document, dispatching each node on its
// type discriminator.
func (r *Routine) UnmarshalJSON(data []byte) error {
	var doc struct {
		Metadata  Metadata          `json:"metadata"`
		StartNode string            `json:"start_node"`
		Nodes     []json.RawMessage `json:"nodes"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	nodes := make([]Node, 0, len(doc.Nodes))

	for i, raw := range doc.Nodes {
		node, err := UnmarshalNode(raw)
		if err != nil {
			return fmt.Errorf("nodes[%d]: %w", i, err)
		}

		nodes = append(nodes, node)
	}

	r.Metadata = doc.Metadata
	r.StartNode = doc.StartNode
	r.Nodes = nodes

	return nil
}

// ToJSON serializes the routine as an indented document.
func (r *Routine) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, NewRoutineError("ToJSON", "", err)
	}

	return data, nil
}

// FromJSON decodes and schema-checks a routine document. It never returns a
// partially populated routine: either the document passes the schema and
// decodes fully, or the error names what was wrong.
func FromJSON(data []byte) (*Routine, error) {
	if err := CheckDocument(data); err != nil {
		return nil, NewRoutineError("FromJSON", "", err)
	}

	var routine Routine
	if err := json.Unmarshal(data, &routine); err != nil {
		return nil, NewRoutineError("FromJSON", "", err)
	}

	return &routine, nil
}

// Load reads a routine document from a file.
func Load(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewRoutineError("Load", path, err)
	}

	routine, err := FromJSON(data)
	if err != nil {
		return nil, NewRoutineError("Load", path, err)
	}

	return routine, nil
}

// Save writes the routine to a file. The document is written to a temporary
// sibling first and renamed into place, so a failure partway through never
// leaves a truncated file behind.
func (r *Routine) Save(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return NewRoutineError("Save", path, err)
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".routine-*.json")
	if err != nil {
		return NewRoutineError("Save", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return NewRoutineError("Save", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return NewRoutineError("Save", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return NewRoutineError("Save", path, err)
	}

	return nil
}
