package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ritzau/roadmap/pkg/model"
)

var panelTemplate = template.Must(template.New("panel").Parse(
	`<aside class="memo-panel" data-id="{{.ID}}">` +
		`<div class="panel-header"><div class="status-dot" style="{{.Dot}}"></div><h3>{{.Label}}</h3></div>` +
		`<div class="panel-summary">` +
		`<p>{{.Description}}</p>` +
		`<div class="panel-status" style="{{.StatusText}}">{{.Status}}</div>` +
		`</div>` +
		`<h4>학습 메모</h4>` +
		`<textarea class="memo" data-id="{{.ID}}" placeholder="학습 내용을 메모해보세요...">{{.Note}}</textarea>` +
		`{{if .Items}}<div class="panel-items"><h4>학습 항목</h4><ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul></div>{{end}}` +
		`</aside>`))

type panelView struct {
	ID          string
	Label       string
	Description string
	Status      string
	Items       []string
	Note        string
	Dot         template.CSS
	StatusText  template.CSS
}

// Panel renders the side panel for the selected node with its current note
func Panel(n model.Node, note string) (template.HTML, error) {
	style := StyleFor(n.Data.Status)
	view := panelView{
		ID:          n.ID,
		Label:       n.Data.Label,
		Description: n.Data.Description,
		Status:      n.Data.Status.Label(),
		Items:       n.Data.Items,
		Note:        note,
		Dot:         style.dot(),
		StatusText:  style.text(),
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering panel for %s: %w", n.ID, err)
	}
	return template.HTML(buf.String()), nil
}
