package web

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ritzau/roadmap/pkg/canvas"
	"github.com/ritzau/roadmap/pkg/dataset"
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/model"
	"github.com/ritzau/roadmap/pkg/pubsub"
)

type testEnv struct {
	srv    *httptest.Server
	canvas *canvas.Controller
	pub    *pubsub.SSEPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	nodes, edges := dataset.Seed()
	return newTestEnvWith(t, nodes, edges)
}

func newTestEnvWith(t *testing.T, nodes []model.Node, edges []model.Edge) *testEnv {
	t.Helper()
	pub := NewPublisher(32)
	c := canvas.New(nodes, edges, canvas.WithChangeHook(ChangePublisher(pub)))

	s, err := NewServer(c, pub)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		pub.Close()
		srv.Close()
	})
	return &testEnv{srv: srv, canvas: c, pub: pub}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d (%s)", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func getGraph(t *testing.T, env *testEnv) GraphData {
	t.Helper()
	resp := env.do(t, "GET", "/api/graph", "")
	expectStatus(t, resp, http.StatusOK)
	var g GraphData
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	return g
}

func TestGraphEndpoint(t *testing.T) {
	env := newTestEnv(t)
	g := getGraph(t, env)

	if len(g.Nodes) != 7 || len(g.Edges) != 7 {
		t.Fatalf("Expected 7 nodes and 7 edges, got %d and %d", len(g.Nodes), len(g.Edges))
	}
	if g.Selected != "" {
		t.Errorf("Nothing should be selected, got %q", g.Selected)
	}
	if !strings.Contains(string(g.Nodes[0].HTML), `class="roadmap-node"`) {
		t.Errorf("Expected rendered node html, got %q", g.Nodes[0].HTML)
	}

	classes := make(map[string]string)
	for _, e := range g.Edges {
		classes[e.ID] = e.ClassName
	}
	if classes["e1-2"] != "edge edge-animated" || classes["e2-4"] != "edge" {
		t.Errorf("Unexpected edge classes: %v", classes)
	}
	if g.Bounds.MaxY != 600 {
		t.Errorf("Unexpected bounds %+v", g.Bounds)
	}
}

func TestMoveNode(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "PATCH", "/api/nodes/6/position", `{"x": 12.5, "y": 700}`)
	expectStatus(t, resp, http.StatusNoContent)

	n, _ := env.canvas.Node("6")
	if n.Position.X != 12.5 || n.Position.Y != 700 {
		t.Errorf("Node 6 at %+v", n.Position)
	}

	// Unknown node is absorbed
	resp = env.do(t, "PATCH", "/api/nodes/zzz/position", `{"x": 1, "y": 1}`)
	expectStatus(t, resp, http.StatusNoContent)

	// Malformed payload changes nothing
	resp = env.do(t, "PATCH", "/api/nodes/6/position", `{"x": "left"}`)
	expectStatus(t, resp, http.StatusBadRequest)
	n, _ = env.canvas.Node("6")
	if n.Position.X != 12.5 {
		t.Errorf("Malformed move changed position to %+v", n.Position)
	}
}

func TestConnect(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "POST", "/api/edges", `{"source": "6", "target": "7"}`)
	expectStatus(t, resp, http.StatusCreated)

	var edge GraphEdge
	if err := json.NewDecoder(resp.Body).Decode(&edge); err != nil {
		t.Fatal(err)
	}
	if edge.Source != "6" || edge.Target != "7" || !edge.Animated || edge.ClassName != "edge edge-animated" {
		t.Errorf("Unexpected edge %+v", edge)
	}
	if len(env.canvas.Edges()) != 8 {
		t.Errorf("Expected 8 edges, got %d", len(env.canvas.Edges()))
	}

	resp = env.do(t, "POST", "/api/edges", `{"source": "6"}`)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestRemoveEndpoints(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(t, "DELETE", "/api/edges/e5-7", ""), http.StatusNoContent)
	expectStatus(t, env.do(t, "DELETE", "/api/nodes/1", ""), http.StatusNoContent)
	expectStatus(t, env.do(t, "DELETE", "/api/nodes/1", ""), http.StatusNoContent)

	g := getGraph(t, env)
	if len(g.Nodes) != 6 {
		t.Errorf("Expected 6 nodes, got %d", len(g.Nodes))
	}
	// e5-7 removed directly, e1-2 and e1-3 by cascade
	if len(g.Edges) != 4 {
		t.Errorf("Expected 4 edges, got %d", len(g.Edges))
	}
}

func TestPanelAbsentWithoutSelection(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/api/panel", "")
	expectStatus(t, resp, http.StatusNoContent)
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("Expected empty body, got %q", body)
	}
}

func TestJavaScriptScenario(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.do(t, "PUT", "/api/selection", `{"id": "4"}`), http.StatusNoContent)

	resp := env.do(t, "GET", "/api/panel", "")
	expectStatus(t, resp, http.StatusOK)
	panel, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"<h3>JavaScript</h3>", "프로그래밍 언어", ">REQUIRED<"} {
		if !strings.Contains(string(panel), want) {
			t.Errorf("Expected %q in panel %s", want, panel)
		}
	}

	// Selected node renders with its overlay
	g := getGraph(t, env)
	for _, n := range g.Nodes {
		hasOverlay := strings.Contains(string(n.HTML), "selection-overlay")
		if hasOverlay != (n.ID == "4") {
			t.Errorf("Node %s overlay=%v", n.ID, hasOverlay)
		}
	}

	expectStatus(t, env.do(t, "PUT", "/api/notes/4", `{"text": "review DOM"}`), http.StatusNoContent)
	expectStatus(t, env.do(t, "PUT", "/api/selection", `{"id": "5"}`), http.StatusNoContent)

	resp = env.do(t, "GET", "/api/panel", "")
	panel, _ = io.ReadAll(resp.Body)
	if strings.Contains(string(panel), "review DOM") {
		t.Error("Note for node 4 leaked into node 5's panel")
	}

	expectStatus(t, env.do(t, "PUT", "/api/selection", `{"id": "4"}`), http.StatusNoContent)
	resp = env.do(t, "GET", "/api/panel", "")
	panel, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(panel), ">review DOM</textarea>") {
		t.Errorf("Expected note to survive reselection, got %s", panel)
	}

	resp = env.do(t, "GET", "/api/notes/4", "")
	var note noteBody
	json.NewDecoder(resp.Body).Decode(&note)
	if note.Text != "review DOM" {
		t.Errorf("Expected note via notes endpoint, got %q", note.Text)
	}
}

func TestClearSelection(t *testing.T) {
	env := newTestEnv(t)
	env.canvas.Select("2")

	expectStatus(t, env.do(t, "DELETE", "/api/selection", ""), http.StatusNoContent)
	expectStatus(t, env.do(t, "GET", "/api/panel", ""), http.StatusNoContent)
}

func TestExportDOT(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/api/export.dot", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "digraph roadmap {") {
		t.Errorf("Unexpected DOT export: %q", body)
	}
}

func TestStaticIndex(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/", "")
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `<div id="flow"`) {
		t.Errorf("Expected canvas markup in index")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected request ID header from middleware")
	}
}

// openStream subscribes to a topic and returns its lines once the stream
// is established
func openStream(t *testing.T, env *testEnv, topic string) <-chan string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	req, _ := http.NewRequestWithContext(ctx, "GET", env.srv.URL+"/api/subscribe/"+topic, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	return lines
}

// waitForLine reads until want shows up, failing on close or timeout
func waitForLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("Stream closed before %q", want)
			}
			if line == want {
				return
			}
		case <-timeout:
			t.Fatalf("Timeout waiting for %q", want)
		}
	}
}

func TestSubscribeReceivesGestures(t *testing.T) {
	env := newTestEnv(t)
	lines := openStream(t, env, "canvas")
	waitForLine(t, lines, ": connected")

	env.canvas.Connect("2", "7")
	waitForLine(t, lines, "event: edge_added")
}

func TestSelectionStreamStartsWithCurrentSelection(t *testing.T) {
	env := newTestEnv(t)
	expectStatus(t, env.do(t, "PUT", "/api/selection", `{"id": "4"}`), http.StatusNoContent)

	// Opened after the click, the stream still begins with it
	lines := openStream(t, env, "selection")
	waitForLine(t, lines, ": connected")
	waitForLine(t, lines, "event: selection")

	var line string
	select {
	case line = <-lines:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for selection data")
	}
	var event pubsub.Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
		t.Fatalf("Bad data line %q: %v", line, err)
	}
	var change canvas.Change
	if err := json.Unmarshal(event.Data, &change); err != nil {
		t.Fatal(err)
	}
	if change.NodeID != "4" {
		t.Errorf("Expected replayed selection of node 4, got %+v", change)
	}
}

func TestSubscribeUnknownTopic(t *testing.T) {
	env := newTestEnv(t)
	expectStatus(t, env.do(t, "GET", "/api/subscribe/everything", ""), http.StatusNotFound)
}

func TestIDsWithSlashes(t *testing.T) {
	nodes := []model.Node{
		{ID: "web/html", Type: model.NodeTypeRoadmap, Data: model.NodeData{Label: "HTML"}},
		{ID: "go", Type: model.NodeTypeRoadmap, Data: model.NodeData{Label: "Go"}},
	}
	env := newTestEnvWith(t, nodes, nil)
	escaped := url.PathEscape("web/html")

	expectStatus(t, env.do(t, "PATCH", "/api/nodes/"+escaped+"/position", `{"x": 40, "y": 80}`), http.StatusNoContent)
	n, _ := env.canvas.Node("web/html")
	if n.Position != (model.Position{X: 40, Y: 80}) {
		t.Errorf("Node web/html at %+v", n.Position)
	}

	expectStatus(t, env.do(t, "PUT", "/api/notes/"+escaped, `{"text": "forms"}`), http.StatusNoContent)
	if got := env.canvas.Note("web/html"); got != "forms" {
		t.Errorf("Expected note %q, got %q", "forms", got)
	}

	resp := env.do(t, "POST", "/api/edges", `{"source": "web/html", "target": "go"}`)
	expectStatus(t, resp, http.StatusCreated)
	var edge GraphEdge
	if err := json.NewDecoder(resp.Body).Decode(&edge); err != nil {
		t.Fatal(err)
	}
	if edge.ID != "eweb/html-go" {
		t.Errorf("Unexpected edge id %q", edge.ID)
	}
	expectStatus(t, env.do(t, "DELETE", "/api/edges/"+url.PathEscape(edge.ID), ""), http.StatusNoContent)
	if len(env.canvas.Edges()) != 0 {
		t.Errorf("Edge %s should be gone", edge.ID)
	}

	expectStatus(t, env.do(t, "DELETE", "/api/nodes/"+escaped, ""), http.StatusNoContent)
	if _, ok := env.canvas.Node("web/html"); ok {
		t.Error("Node web/html should be gone")
	}
}

type brokenWriter struct {
	header http.Header
}

func (b *brokenWriter) Header() http.Header       { return b.header }
func (b *brokenWriter) WriteHeader(int)           {}
func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteBodyLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logging.Setup(logging.Options{Level: slog.LevelDebug, Out: &buf})
	t.Cleanup(func() { logging.Setup(logging.Options{Level: slog.LevelInfo}) })

	r := httptest.NewRequest("GET", "/api/panel", nil)
	writeBody(&brokenWriter{header: http.Header{}}, r, []byte("<aside></aside>"))

	out := buf.String()
	if !strings.Contains(out, "writing response failed") || !strings.Contains(out, "connection reset") {
		t.Errorf("Expected the failed write to be logged, got %q", out)
	}
}
