package canvas

import (
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/model"
)

// Select makes id the selected node. Unknown IDs leave the selection as is.
func (c *Controller) Select(id string) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	_, ok := c.index[id]
	changed := ok && c.selected != id
	if ok {
		c.selected = id
	}
	c.mu.Unlock()

	if !ok {
		logging.Debug("select ignored for unknown node", "id", id)
		return false
	}
	if changed {
		c.emit(Change{Kind: ChangeSelection, NodeID: id})
	}
	return true
}

// ClearSelection deselects whatever is selected (empty-canvas click)
func (c *Controller) ClearSelection() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	had := c.selected != ""
	c.selected = ""
	c.mu.Unlock()

	if had {
		c.emit(Change{Kind: ChangeSelection})
	}
}

// Selected returns the currently selected node as it is now.
// The node is looked up by ID on every call, so a node dragged after being
// selected reports its new position.
func (c *Controller) Selected() (model.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == "" {
		return model.Node{}, false
	}
	i, ok := c.index[c.selected]
	if !ok {
		return model.Node{}, false
	}
	return c.nodes[i].Clone(), true
}

// SelectedID returns the selected node ID, or "" when nothing is selected
func (c *Controller) SelectedID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Note returns the note for a node, or "" if none was written
func (c *Controller) Note(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notes[id]
}

// SetNote overwrites the note for a node.
// The mapping is keyed by string, so notes for unknown IDs are kept too.
func (c *Controller) SetNote(id, text string) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.notes[id] = text
	c.mu.Unlock()

	logging.Trace("note updated", "id", id, "length", len(text))
	c.emit(Change{Kind: ChangeNote, NodeID: id, Note: &text})
}

// Notes returns a copy of every note written so far
func (c *Controller) Notes() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.notes))
	for k, v := range c.notes {
		out[k] = v
	}
	return out
}
