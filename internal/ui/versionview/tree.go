package versionview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/hubctl/internal/graph"
	"github.com/zjrosen/hubctl/internal/ui/styles"
)

const zoneNodePrefix = "versionview-node:"

// node is one clickable dependency line of the tree.
type node struct {
	zoneID string
	alias  string
	depth  int
	ref    graph.CellRef
	cycle  bool
	label  string
	prefix string
}

func makeNodeZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneNodePrefix, index)
}

// buildNodes walks the diagram from its root in the same order as
// graph.RenderTree and returns one node per dependency line.
func buildNodes(d *graph.Diagram) []node {
	if d == nil || d.Root() == "" {
		return nil
	}
	var nodes []node
	var walk func(cell, prefix string, depth int, onPath map[string]bool)
	walk = func(cell, prefix string, depth int, onPath map[string]bool) {
		links := dedupe(d.LinksFrom(cell))
		for i, link := range links {
			branch, indent := "├── ", "│   "
			if i == len(links)-1 {
				branch, indent = "└── ", "    "
			}
			ref, err := graph.ParseCellID(link.To)
			if err != nil {
				continue
			}
			n := node{
				zoneID: makeNodeZoneID(len(nodes)),
				alias:  link.Alias,
				depth:  depth,
				ref:    ref,
				cycle:  onPath[link.To],
				label:  cellLabel(d, link.To),
				prefix: prefix + branch,
			}
			nodes = append(nodes, n)
			if n.cycle {
				continue
			}
			onPath[link.To] = true
			walk(link.To, prefix+indent, depth+1, onPath)
			delete(onPath, link.To)
		}
	}
	root := d.Root()
	walk(root, "", 0, map[string]bool{root: true})
	return nodes
}

func dedupe(links []graph.DependencyLink) []graph.DependencyLink {
	seen := make(map[graph.DependencyLink]bool, len(links))
	out := links[:0:0]
	for _, l := range links {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func cellLabel(d *graph.Diagram, cell string) string {
	components := d.ComponentsOf(cell)
	if len(components) == 0 {
		return cell
	}
	return cell + " (" + strings.Join(components, ", ") + ")"
}

// renderTree renders the root line and every node, marking each node as a
// mouse zone. The selected node carries the selection indicator.
func renderTree(d *graph.Diagram, nodes []node, selected, width int) string {
	if d == nil || d.Root() == "" {
		return styles.HelpStyle.Render("  " + errNoMetadata.Error())
	}

	lines := []string{"  " + cellLabel(d, d.Root())}
	if len(nodes) == 0 {
		lines = append(lines, styles.HelpStyle.Render("  no dependencies"))
	}
	connector := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor)
	aliasStyle := lipgloss.NewStyle().Bold(true)
	for i, n := range nodes {
		indicator := "  "
		if i == selected {
			indicator = styles.SelectionIndicatorStyle.Render("> ")
		}
		text := connector.Render(n.prefix) + aliasStyle.Render(n.alias) + " → " + n.label
		if n.cycle {
			text += styles.HelpStyle.Render(" (cycle)")
		}
		line := indicator + text
		if width > 0 && ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width-1, "…")
		}
		lines = append(lines, zone.Mark(n.zoneID, line))
	}
	return strings.Join(lines, "\n")
}

func renderError(err error, width int) string {
	msg := "Could not load version: " + err.Error()
	if width > 8 {
		msg = wordwrap.String(msg, width-6)
	}
	return styles.ErrorStyle.Render(msg)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
