package graph

import (
	"strings"
)

// RenderTree renders the diagram as an indented dependency tree rooted at the
// diagram's root cell. Each line shows the alias, the cell id and its
// components:
//
//	o/x:1 (a, b)
//	└── dep1 → o/y:2 (c1)
func RenderTree(d *Diagram) string {
	root := d.Root()
	if root == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(cellLabel(d, root))
	sb.WriteByte('\n')
	renderChildren(&sb, d, root, "", map[string]bool{root: true})
	return sb.String()
}

func renderChildren(sb *strings.Builder, d *Diagram, cell, prefix string, onPath map[string]bool) {
	links := uniqueLinks(d.LinksFrom(cell))
	for i, link := range links {
		last := i == len(links)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		sb.WriteString(prefix + branch + link.Alias + " → " + cellLabel(d, link.To))
		if onPath[link.To] {
			sb.WriteString(" (cycle)\n")
			continue
		}
		sb.WriteByte('\n')
		onPath[link.To] = true
		renderChildren(sb, d, link.To, prefix+indent, onPath)
		delete(onPath, link.To)
	}
}

func cellLabel(d *Diagram, cell string) string {
	components := d.ComponentsOf(cell)
	if len(components) == 0 {
		return cell
	}
	return cell + " (" + strings.Join(components, ", ") + ")"
}

// uniqueLinks drops repeats of the same alias/target pair, which appear once
// per path when a cell is reached through a diamond.
func uniqueLinks(links []DependencyLink) []DependencyLink {
	seen := make(map[DependencyLink]bool, len(links))
	out := links[:0:0]
	for _, l := range links {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
