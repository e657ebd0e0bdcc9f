// Package render turns roadmap nodes into HTML fragments for the canvas
// and the side panel. Everything here is a pure function of its inputs.
package render

import (
	"fmt"
	"html/template"

	"github.com/ritzau/roadmap/pkg/model"
)

// Style is the color set for one status
type Style struct {
	Background string // card gradient start and badge background
	Border     string // card border, handles, selection overlay
	Accent     string // badge text
	Gradient   string // soft glow used by the minimap
}

var (
	styleRequired = Style{
		Background: "#ffe5e5",
		Border:     "#ff4f56",
		Accent:     "#cc2f35",
		Gradient:   "rgba(255, 79, 86, 0.1)",
	}
	styleRecommended = Style{
		Background: "#e5f3ff",
		Border:     "#36a3ff",
		Accent:     "#0077e6",
		Gradient:   "rgba(54, 163, 255, 0.1)",
	}
	styleOptional = Style{
		Background: "#e5f6f3",
		Border:     "#25c2a0",
		Accent:     "#1a8971",
		Gradient:   "rgba(37, 194, 160, 0.1)",
	}
	styleDefault = Style{
		Background: "#f5f5f5",
		Border:     "#666",
		Accent:     "#444",
		Gradient:   "rgba(100, 100, 100, 0.1)",
	}
)

// StyleFor maps a status to its colors; unknown statuses get the default set
func StyleFor(s model.Status) Style {
	switch s.Kind() {
	case model.StatusRequired:
		return styleRequired
	case model.StatusRecommended:
		return styleRecommended
	case model.StatusOptional:
		return styleOptional
	case model.StatusDefault:
		return styleDefault
	}
	return styleDefault
}

// The CSS below is assembled only from the fixed palette above, never from
// node content, so it is safe to mark as template.CSS.

func (s Style) card() template.CSS {
	return template.CSS(fmt.Sprintf("background: linear-gradient(to bottom right, %s, white); border: 2px solid %s;", s.Background, s.Border))
}

func (s Style) badge() template.CSS {
	return template.CSS(fmt.Sprintf("background: %s; color: %s;", s.Background, s.Accent))
}

func (s Style) handle() template.CSS {
	return template.CSS(fmt.Sprintf("border: 2px solid %s;", s.Border))
}

func (s Style) dot() template.CSS {
	return template.CSS(fmt.Sprintf("background: %s;", s.Border))
}

func (s Style) text() template.CSS {
	return template.CSS(fmt.Sprintf("color: %s;", s.Border))
}
