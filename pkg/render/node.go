package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ritzau/roadmap/pkg/model"
)

var nodeTemplate = template.Must(template.New("node").Parse(
	`<div class="roadmap-node" data-id="{{.ID}}" data-status="{{.Kind}}" style="{{.Card}}">` +
		`<div class="status-badge" style="{{.BadgeCSS}}">{{.BadgeText}}</div>` +
		`<div class="handle handle-target" data-handle="target" data-id="{{.ID}}" style="{{.HandleCSS}}"></div>` +
		`<div class="node-title">{{.Label}}</div>` +
		`{{if .Description}}<div class="node-description">{{.Description}}</div>{{end}}` +
		`{{if .Items}}<div class="node-items"><ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul></div>{{end}}` +
		`<div class="handle handle-source" data-handle="source" data-id="{{.ID}}" style="{{.HandleCSS}}"></div>` +
		`{{if .Selected}}<div class="selection-overlay" style="{{.HandleCSS}}"></div>{{end}}` +
		`</div>`))

type nodeView struct {
	ID          string
	Kind        model.Status
	Label       string
	Description string
	Items       []string
	Selected    bool
	BadgeText   string
	Card        template.CSS
	BadgeCSS    template.CSS
	HandleCSS   template.CSS
}

// Node renders one roadmap card.
// The output depends only on the node content and the selected flag, so
// re-rendering an unchanged node yields identical bytes. Position is not part
// of the markup; the client places the card.
func Node(n model.Node, selected bool) (template.HTML, error) {
	style := StyleFor(n.Data.Status)
	view := nodeView{
		ID:          n.ID,
		Kind:        n.Data.Status.Kind(),
		Label:       n.Data.Label,
		Description: n.Data.Description,
		Items:       n.Data.Items,
		Selected:    selected,
		BadgeText:   n.Data.Status.Label(),
		Card:        style.card(),
		BadgeCSS:    style.badge(),
		HandleCSS:   style.handle(),
	}

	var buf bytes.Buffer
	if err := nodeTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering node %s: %w", n.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// EdgeClass is the CSS class list the client puts on an edge path
func EdgeClass(e model.Edge) string {
	if e.Animated {
		return "edge edge-animated"
	}
	return "edge"
}
