package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ritzau/roadmap/pkg/model"
)

// statusColor picks the terminal color closest to the canvas palette
func statusColor(s model.Status) *color.Color {
	switch s.Kind() {
	case model.StatusRequired:
		return color.New(color.FgRed, color.Bold)
	case model.StatusRecommended:
		return color.New(color.FgBlue, color.Bold)
	case model.StatusOptional:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

// PrintRoadmap writes the roadmap as a colored outline: each node with its
// status, items and outgoing connections, then a per-status summary
func PrintRoadmap(w io.Writer, nodes []model.Node, edges []model.Edge) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	yellow := color.New(color.FgYellow)

	bold.Fprintln(w, "Learning Roadmap")
	bold.Fprintln(w, "================")

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Data.Label
	}
	outgoing := make(map[string][]string)
	var dangling []model.Edge
	for _, e := range edges {
		if _, ok := labels[e.Target]; !ok {
			dangling = append(dangling, e)
			continue
		}
		if _, ok := labels[e.Source]; !ok {
			dangling = append(dangling, e)
			continue
		}
		arrow := "-> "
		if e.Animated {
			arrow = "~> "
		}
		outgoing[e.Source] = append(outgoing[e.Source], arrow+labels[e.Target])
	}

	counts := make(map[model.Status]int)
	for _, n := range nodes {
		counts[n.Data.Status.Kind()]++

		statusColor(n.Data.Status).Fprintf(w, "[%s] ", n.Data.Status.Label())
		bold.Fprintf(w, "%s", n.Data.Label)
		faint.Fprintf(w, " (#%s)\n", n.ID)
		if n.Data.Description != "" {
			fmt.Fprintf(w, "    %s\n", n.Data.Description)
		}
		if len(n.Data.Items) > 0 {
			fmt.Fprintf(w, "    Items: %s\n", strings.Join(n.Data.Items, ", "))
		}
		for _, link := range outgoing[n.ID] {
			faint.Fprintf(w, "    %s\n", link)
		}
	}
	fmt.Fprintln(w)

	if len(dangling) > 0 {
		yellow.Fprintf(w, "%d edge(s) reference missing nodes and are not drawn:\n", len(dangling))
		for _, e := range dangling {
			yellow.Fprintf(w, "  %s (%s -> %s)\n", e.ID, e.Source, e.Target)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d topics, %d connections (", len(nodes), len(edges))
	first := true
	for _, s := range []model.Status{model.StatusRequired, model.StatusRecommended, model.StatusOptional, model.StatusDefault} {
		if counts[s] == 0 {
			continue
		}
		if !first {
			fmt.Fprint(w, ", ")
		}
		first = false
		statusColor(s).Fprintf(w, "%d %s", counts[s], s)
	}
	fmt.Fprintln(w, ")")
}
