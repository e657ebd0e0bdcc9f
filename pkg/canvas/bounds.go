package canvas

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ritzau/roadmap/pkg/model"
)

// Bounds is the axis-aligned box around all node origins.
// The client pads it by the rendered node size for fit-view and the minimap.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width of the box
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the box
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the box around the current node positions.
// An empty canvas yields the zero box.
func (c *Controller) Bounds() Bounds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return boundsOf(c.nodes)
}

func boundsOf(nodes []model.Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i] = n.Position.X
		ys[i] = n.Position.Y
	}
	return Bounds{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}
}
