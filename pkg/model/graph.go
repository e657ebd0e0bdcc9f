package model

// Node is a topic on the roadmap.
// Content is fixed after load; only Position changes (via drag).
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Clone returns a deep copy of the node
func (n Node) Clone() Node {
	c := n
	c.Data = n.Data.Clone()
	return c
}

// Edge is a directed connector between two nodes.
// Source and Target are node IDs; nothing checks that they exist.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated,omitempty"`
}

// Touches reports whether the edge starts or ends at the given node
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// CloneNodes deep-copies a node list
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneEdges copies an edge list
func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
