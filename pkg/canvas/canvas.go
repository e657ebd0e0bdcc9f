// Package canvas owns the interactive roadmap state: node positions,
// edges, the current selection and per-node notes.
//
// Every gesture from the client maps to one Controller method. Methods are
// safe for concurrent use; HTTP handlers call them from many goroutines but
// the controller is the only writer.
package canvas

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/model"
)

// Controller holds the authoritative in-memory graph state
type Controller struct {
	mu       sync.RWMutex
	nodes    []model.Node
	index    map[string]int // node ID -> position in nodes
	edges    []model.Edge
	selected string // empty when nothing is selected
	notes    map[string]string

	// emitMu spans a mutation and its hook call, so observers see changes
	// in the order they were applied. Taken before mu.
	emitMu   sync.Mutex
	onChange func(Change)
}

// Option configures a Controller
type Option func(*Controller)

// WithChangeHook registers a callback invoked after every successful mutation.
// It runs outside the state lock, so it may read the controller, but it must
// not mutate it.
func WithChangeHook(fn func(Change)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller seeded with the given nodes and edges.
// The slices are copied. If ids repeat, the last node with an id wins lookups.
func New(nodes []model.Node, edges []model.Edge, opts ...Option) *Controller {
	c := &Controller{
		nodes: model.CloneNodes(nodes),
		edges: model.CloneEdges(edges),
		notes: make(map[string]string),
	}
	c.reindex()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) reindex() {
	c.index = make(map[string]int, len(c.nodes))
	for i, n := range c.nodes {
		c.index[n.ID] = i
	}
}

func (c *Controller) emit(ch Change) {
	if c.onChange != nil {
		c.onChange(ch)
	}
}

// Nodes returns a copy of the node list in insertion order
func (c *Controller) Nodes() []model.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneNodes(c.nodes)
}

// Edges returns a copy of the edge list in insertion order
func (c *Controller) Edges() []model.Edge {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneEdges(c.edges)
}

// Node looks up a node by ID
func (c *Controller) Node(id string) (model.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return model.Node{}, false
	}
	return c.nodes[i].Clone(), true
}

// MoveNode sets a node's position. Nothing else changes.
// Unknown IDs are ignored and report false.
func (c *Controller) MoveNode(id string, pos model.Position) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	i, ok := c.index[id]
	if ok {
		c.nodes[i].Position = pos
	}
	c.mu.Unlock()

	if !ok {
		logging.Debug("move ignored for unknown node", "id", id)
		return false
	}
	logging.Trace("node moved", "id", id, "x", pos.X, "y", pos.Y)
	c.emit(Change{Kind: ChangeNodeMoved, NodeID: id, Position: &pos})
	return true
}

// Connect appends an animated edge from source to target and returns it.
// Self-loops, duplicates and cycles are all accepted.
func (c *Controller) Connect(source, target string) model.Edge {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	edge := model.Edge{
		ID:       c.freshEdgeID(source, target),
		Source:   source,
		Target:   target,
		Animated: true,
	}
	c.edges = append(c.edges, edge)
	c.mu.Unlock()

	logging.Debug("edge connected", "id", edge.ID, "source", source, "target", target)
	c.emit(Change{Kind: ChangeEdgeAdded, EdgeID: edge.ID, Edge: &edge})
	return edge
}

// freshEdgeID derives e<source>-<target>, falling back to a uuid suffix
// when that ID is already in use. Caller holds the write lock.
func (c *Controller) freshEdgeID(source, target string) string {
	base := fmt.Sprintf("e%s-%s", source, target)
	if !c.hasEdgeLocked(base) {
		return base
	}
	for {
		id := base + "-" + uuid.NewString()[:8]
		if !c.hasEdgeLocked(id) {
			return id
		}
	}
}

func (c *Controller) hasEdgeLocked(id string) bool {
	for _, e := range c.edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// RemoveEdge deletes an edge by ID
func (c *Controller) RemoveEdge(id string) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	removed := false
	for i, e := range c.edges {
		if e.ID == id {
			c.edges = append(c.edges[:i], c.edges[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if !removed {
		return false
	}
	logging.Debug("edge removed", "id", id)
	c.emit(Change{Kind: ChangeEdgeRemoved, EdgeID: id})
	return true
}

// RemoveNode deletes a node together with every edge touching it and its note.
// If the node was selected the selection is cleared.
func (c *Controller) RemoveNode(id string) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	i, ok := c.index[id]
	if !ok {
		c.mu.Unlock()
		return false
	}

	c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
	c.reindex()

	kept := c.edges[:0]
	var dropped []string
	for _, e := range c.edges {
		if e.Touches(id) {
			dropped = append(dropped, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	c.edges = kept

	delete(c.notes, id)
	wasSelected := c.selected == id
	if wasSelected {
		c.selected = ""
	}
	c.mu.Unlock()

	logging.Debug("node removed", "id", id, "edgesRemoved", len(dropped))
	c.emit(Change{Kind: ChangeNodeRemoved, NodeID: id, EdgeIDs: dropped})
	if wasSelected {
		c.emit(Change{Kind: ChangeSelection})
	}
	return true
}
