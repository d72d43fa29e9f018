// Package flow lays out a sequence of exchanges as a top-down flowchart and
// renders it as Mermaid source. Drawing the chart is left to the consumer.
package flow

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/har"
)

// maxPathLen is the longest path shown on a node.
const maxPathLen = 30

// Style is a node's status-derived color scheme.
type Style string

const (
	StyleSuccess  Style = "success"
	StyleRedirect Style = "redirect"
	StyleError    Style = "error"
)

var styleDefs = map[Style]string{
	StyleSuccess:  "fill:#d4edda,stroke:#155724,stroke-width:2px,color:#155724",
	StyleRedirect: "fill:#fff3cd,stroke:#856404,stroke-width:2px,color:#856404",
	StyleError:    "fill:#f8d7da,stroke:#721c24,stroke-width:2px,color:#721c24",
}

// StyleFor returns the style of a node with the given status.
func StyleFor(status int) Style {
	switch {
	case status >= 400:
		return StyleError
	case status >= 300:
		return StyleRedirect
	default:
		return StyleSuccess
	}
}

// Node is one exchange.
type Node struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Path     string            `json:"path"`
	Category classify.Category `json:"category"`
	Status   int               `json:"status"`
	Style    Style             `json:"style"`
}

// Edge links consecutive exchanges.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a linear flowchart.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

var upper = cases.Upper(language.English)

// Build creates one node per entry in order, linked by sequential edges.
// Entries without a request or response are skipped.
func Build(entries []har.Entry) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, e := range entries {
		if e.Request == nil || e.Response == nil {
			continue
		}
		cat := classify.Classify(e)
		n := Node{
			ID:       fmt.Sprintf("A%d", len(g.Nodes)),
			Label:    fmt.Sprintf("[%s] %s %d", upper.String(string(cat)), e.Request.Method, e.Response.Status),
			Path:     ShortPath(e.Request.URL),
			Category: cat,
			Status:   e.Response.Status,
			Style:    StyleFor(e.Response.Status),
		}
		if len(g.Nodes) > 0 {
			g.Edges = append(g.Edges, Edge{From: g.Nodes[len(g.Nodes)-1].ID, To: n.ID})
		}
		g.Nodes = append(g.Nodes, n)
	}
	return g
}

// ShortPath returns the URL path, keeping its tail when it is too long.
// Unparseable URLs are truncated from the front instead.
func ShortPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		if r := []rune(rawURL); len(r) > maxPathLen {
			return string(r[:maxPathLen-3]) + "..."
		}
		return rawURL
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if len(path) > maxPathLen {
		path = "..." + path[len(path)-(maxPathLen-3):]
	}
	return path
}

var labelEscaper = strings.NewReplacer(`"`, "#quot;", "<", "&lt;", ">", "&gt;")

// Mermaid renders the graph as "graph TD" source.
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for i, n := range g.Nodes {
		fmt.Fprintf(&b, "    %s[\"<b>%s</b><br/><small>%s</small>\"]\n",
			n.ID, labelEscaper.Replace(n.Label), labelEscaper.Replace(n.Path))
		fmt.Fprintf(&b, "    style %s %s\n", n.ID, styleDefs[n.Style])
		if i > 0 {
			fmt.Fprintf(&b, "    %s --> %s\n", g.Nodes[i-1].ID, n.ID)
		}
	}
	return b.String()
}
