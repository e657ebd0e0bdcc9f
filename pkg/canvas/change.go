package canvas

import "github.com/ritzau/roadmap/pkg/model"

// ChangeKind names a state transition
type ChangeKind string

const (
	ChangeNodeMoved   ChangeKind = "node_moved"
	ChangeNodeRemoved ChangeKind = "node_removed"
	ChangeEdgeAdded   ChangeKind = "edge_added"
	ChangeEdgeRemoved ChangeKind = "edge_removed"
	ChangeSelection   ChangeKind = "selection"
	ChangeNote        ChangeKind = "note"
)

// Change describes one mutation, for fan-out to observers
type Change struct {
	Kind     ChangeKind      `json:"kind"`
	NodeID   string          `json:"nodeId,omitempty"`
	EdgeID   string          `json:"edgeId,omitempty"`
	EdgeIDs  []string        `json:"edgeIds,omitempty"`
	Position *model.Position `json:"position,omitempty"`
	Edge     *model.Edge     `json:"edge,omitempty"`
	Note     *string         `json:"note,omitempty"`
}

// Snapshot is a consistent copy of the whole canvas
type Snapshot struct {
	Nodes    []model.Node `json:"nodes"`
	Edges    []model.Edge `json:"edges"`
	Selected string       `json:"selected,omitempty"`
	Bounds   Bounds       `json:"bounds"`
}

// Snapshot copies nodes, edges and selection under one lock
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Nodes:    model.CloneNodes(c.nodes),
		Edges:    model.CloneEdges(c.edges),
		Selected: c.selected,
		Bounds:   boundsOf(c.nodes),
	}
}
