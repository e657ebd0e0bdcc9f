package web

import (
	"html/template"
	"net/http"

	"github.com/ritzau/roadmap/pkg/canvas"
	"github.com/ritzau/roadmap/pkg/export"
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/model"
	"github.com/ritzau/roadmap/pkg/render"
)

// GraphNode is a node as the client draws it
type GraphNode struct {
	model.Node
	HTML template.HTML `json:"html"`
}

// GraphEdge is an edge plus the CSS class the client applies
type GraphEdge struct {
	model.Edge
	ClassName string `json:"className"`
}

// GraphData is the full canvas as served to the client
type GraphData struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Selected string        `json:"selected,omitempty"`
	Bounds   canvas.Bounds `json:"bounds"`
}

func buildGraphData(snap canvas.Snapshot) (*GraphData, error) {
	data := &GraphData{
		Nodes:    make([]GraphNode, 0, len(snap.Nodes)),
		Edges:    make([]GraphEdge, 0, len(snap.Edges)),
		Selected: snap.Selected,
		Bounds:   snap.Bounds,
	}
	for _, n := range snap.Nodes {
		html, err := render.Node(n, n.ID == snap.Selected)
		if err != nil {
			return nil, err
		}
		data.Nodes = append(data.Nodes, GraphNode{Node: n, HTML: html})
	}
	for _, e := range snap.Edges {
		data.Edges = append(data.Edges, graphEdge(e))
	}
	return data, nil
}

func graphEdge(e model.Edge) GraphEdge {
	return GraphEdge{Edge: e, ClassName: render.EdgeClass(e)}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	data, err := buildGraphData(s.canvas.Snapshot())
	if err != nil {
		logging.ErrorContext(r.Context(), "rendering graph", "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, data)
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var pos model.Position
	if !decodeJSON(w, r, &pos) {
		return
	}
	// Unknown nodes are absorbed like the diagram library does
	s.canvas.MoveNode(routeID(r), pos)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	s.canvas.RemoveNode(routeID(r))
	w.WriteHeader(http.StatusNoContent)
}

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Source == "" || req.Target == "" {
		http.Error(w, "source and target are required", http.StatusBadRequest)
		return
	}
	edge := s.canvas.Connect(req.Source, req.Target)
	writeJSON(w, r, http.StatusCreated, graphEdge(edge))
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	s.canvas.RemoveEdge(routeID(r))
	w.WriteHeader(http.StatusNoContent)
}

type selectRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.canvas.Select(req.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.canvas.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// handlePanel serves the side panel for the live selection.
// No selection means no panel at all: 204 and an empty body.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	node, ok := s.canvas.Selected()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	html, err := render.Panel(node, s.canvas.Note(node.ID))
	if err != nil {
		logging.ErrorContext(r.Context(), "rendering panel", "id", node.ID, "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeBody(w, r, []byte(html))
}

type noteBody struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id := routeID(r)
	writeJSON(w, r, http.StatusOK, noteBody{ID: id, Text: s.canvas.Note(id)})
}

func (s *Server) handleSetNote(w http.ResponseWriter, r *http.Request) {
	var body noteBody
	if !decodeJSON(w, r, &body) {
		return
	}
	s.canvas.SetNote(routeID(r), body.Text)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportDOT(w http.ResponseWriter, r *http.Request) {
	snap := s.canvas.Snapshot()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="roadmap.dot"`)
	writeBody(w, r, []byte(export.ToDOT(snap.Nodes, snap.Edges)))
}

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	snap := s.canvas.Snapshot()
	svg, err := export.RenderSVG(r.Context(), export.ToDOT(snap.Nodes, snap.Edges))
	if err != nil {
		logging.ErrorContext(r.Context(), "exporting svg", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	writeBody(w, r, svg)
}
