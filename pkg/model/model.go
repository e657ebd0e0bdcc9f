package model

import "strings"

// Status is the learning priority of a roadmap topic
type Status string

const (
	StatusRequired    Status = "required"
	StatusRecommended Status = "recommended"
	StatusOptional    Status = "optional"
	StatusDefault     Status = "default"
)

// Kind folds a status into the closed set of known statuses.
// Anything not recognized (including the empty string) is StatusDefault.
func (s Status) Kind() Status {
	switch s {
	case StatusRequired, StatusRecommended, StatusOptional:
		return s
	default:
		return StatusDefault
	}
}

// Known reports whether the status is one of required, recommended or optional
func (s Status) Known() bool {
	return s.Kind() != StatusDefault
}

// Label is the badge text for the status. Unknown statuses keep their raw text.
func (s Status) Label() string {
	if s == "" {
		return strings.ToUpper(string(StatusDefault))
	}
	return strings.ToUpper(string(s))
}

// NodeTypeRoadmap is the only category tag the renderer knows about
const NodeTypeRoadmap = "roadmap"

// Position is a point in canvas coordinates
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the content payload of a node
type NodeData struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Items       []string `json:"items,omitempty"`
	Status      Status   `json:"status"`
}

// Clone returns a deep copy so callers can't alias the item slice
func (d NodeData) Clone() NodeData {
	c := d
	if d.Items != nil {
		c.Items = append([]string(nil), d.Items...)
	}
	return c
}
