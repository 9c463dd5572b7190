package graph

import "encoding/json"

// Diagram is the flattened dependency graph of a cell.
type Diagram struct {
	Cells           []string            `json:"cells"`
	Components      []Component         `json:"components"`
	MetaInfo        map[string]MetaInfo `json:"metaInfo"`
	DependencyLinks []DependencyLink    `json:"dependencyLinks"`
}

// Component is a component node, unique per (Cell, Name).
type Component struct {
	Cell string `json:"cell"`
	Name string `json:"name"`
}

// MetaInfo is the per-cell information shown inside a cell node.
type MetaInfo struct {
	Cell                     string            `json:"cell"`
	Type                     string            `json:"type"`
	Ingresses                []json.RawMessage `json:"ingresses,omitempty"`
	ComponentDependencyLinks []ComponentLink   `json:"componentDependencyLinks"`
}

// ComponentLink connects two component nodes ("{cell} {component}") or the
// gateway pseudo-node ("{cell} gateway") to an exposed component.
type ComponentLink struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DependencyLink is a cell-to-cell edge labelled with the dependency alias.
type DependencyLink struct {
	Alias string `json:"alias"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// GatewayNode is the name of the gateway pseudo-component.
const GatewayNode = "gateway"

// NodeID returns the id of a component node inside cell.
func NodeID(cell, component string) string {
	return cell + " " + component
}

// Root returns the root cell id, or "" for an empty diagram.
func (d *Diagram) Root() string {
	if len(d.Cells) == 0 {
		return ""
	}
	return d.Cells[0]
}

// ComponentsOf returns the component names recorded for cell, in order.
func (d *Diagram) ComponentsOf(cell string) []string {
	var names []string
	for _, c := range d.Components {
		if c.Cell == cell {
			names = append(names, c.Name)
		}
	}
	return names
}

// LinksFrom returns the dependency links leaving cell, in traversal order.
func (d *Diagram) LinksFrom(cell string) []DependencyLink {
	var links []DependencyLink
	for _, l := range d.DependencyLinks {
		if l.From == cell {
			links = append(links, l)
		}
	}
	return links
}
