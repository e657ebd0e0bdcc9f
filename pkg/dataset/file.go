package dataset

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/ritzau/roadmap/pkg/model"
)

// seedFile mirrors the TOML layout of a roadmap seed:
//
//	[[nodes]]
//	id = "1"
//	label = "HTML"
//	status = "required"
//	items = ["Forms"]
//	x = 100.0
//	y = 150.0
//
//	[[edges]]
//	source = "1"
//	target = "2"
//	animated = true
type seedFile struct {
	Nodes []seedNode `toml:"nodes"`
	Edges []seedEdge `toml:"edges"`
}

type seedNode struct {
	ID          string   `toml:"id"`
	Type        string   `toml:"type"`
	Label       string   `toml:"label"`
	Description string   `toml:"description"`
	Items       []string `toml:"items"`
	Status      string   `toml:"status"`
	X           float64  `toml:"x"`
	Y           float64  `toml:"y"`
}

type seedEdge struct {
	ID       string `toml:"id"`
	Source   string `toml:"source"`
	Target   string `toml:"target"`
	Animated bool   `toml:"animated"`
}

// LoadFile reads a roadmap seed from a TOML file.
// Edges are not checked against the node set; a dangling edge just won't draw.
func LoadFile(path string) ([]model.Node, []model.Edge, error) {
	var sf seedFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return nil, nil, fmt.Errorf("decoding seed file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(sf.Nodes))
	nodes := make([]model.Node, 0, len(sf.Nodes))
	for i, n := range sf.Nodes {
		if n.ID == "" {
			return nil, nil, fmt.Errorf("seed file %s: node %d has no id", path, i)
		}
		if seen[n.ID] {
			return nil, nil, fmt.Errorf("seed file %s: duplicate node id %q", path, n.ID)
		}
		seen[n.ID] = true

		nodeType := n.Type
		if nodeType == "" {
			nodeType = model.NodeTypeRoadmap
		}
		nodes = append(nodes, model.Node{
			ID:       n.ID,
			Type:     nodeType,
			Position: model.Position{X: n.X, Y: n.Y},
			Data: model.NodeData{
				Label:       n.Label,
				Description: n.Description,
				Items:       n.Items,
				Status:      model.Status(n.Status),
			},
		})
	}

	// Explicit edge IDs are claimed first so a derived ID never takes one
	taken := make(map[string]bool, len(sf.Edges))
	for _, e := range sf.Edges {
		if e.ID == "" {
			continue
		}
		if taken[e.ID] {
			return nil, nil, fmt.Errorf("seed file %s: duplicate edge id %q", path, e.ID)
		}
		taken[e.ID] = true
	}

	edges := make([]model.Edge, 0, len(sf.Edges))
	for _, e := range sf.Edges {
		id := e.ID
		if id == "" {
			id = derivedEdgeID(e.Source, e.Target, taken)
			taken[id] = true
		}
		edges = append(edges, model.Edge{
			ID:       id,
			Source:   e.Source,
			Target:   e.Target,
			Animated: e.Animated,
		})
	}

	return nodes, edges, nil
}

// derivedEdgeID names an edge e<source>-<target>, adding a short uuid suffix
// when parallel edges would otherwise share that name
func derivedEdgeID(source, target string, taken map[string]bool) string {
	base := fmt.Sprintf("e%s-%s", source, target)
	id := base
	for taken[id] {
		id = base + "-" + uuid.NewString()[:8]
	}
	return id
}
