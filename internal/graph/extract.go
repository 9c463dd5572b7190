package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zjrosen/hubctl/internal/log"
)

// ErrCyclicDependency is returned when a cell depends on itself, directly or
// through its dependencies.
var ErrCyclicDependency = errors.New("cyclic dependency detected")

// Extract flattens root and its transitive dependencies into a Diagram.
// Each call builds a new Diagram; root is not modified.
func Extract(root *CellMetadata) (*Diagram, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}

	e := newExtractor()
	rootID := root.ID()
	e.addCell(rootID)
	for _, name := range root.Components {
		e.addComponent(rootID, name)
	}

	if err := e.visit(root); err != nil {
		log.ErrorErr(log.CatGraph, "dependency extraction failed", err, "root", rootID)
		return nil, err
	}

	log.Debug(log.CatGraph, "extracted dependency diagram", "root", rootID,
		"cells", len(e.diagram.Cells), "components", len(e.diagram.Components),
		"links", len(e.diagram.DependencyLinks))
	return e.diagram, nil
}

type extractor struct {
	diagram    *Diagram
	cells      map[string]bool
	components map[Component]bool
	onPath     map[string]bool
	path       []string
}

func newExtractor() *extractor {
	return &extractor{
		diagram: &Diagram{
			Cells:           []string{},
			Components:      []Component{},
			MetaInfo:        map[string]MetaInfo{},
			DependencyLinks: []DependencyLink{},
		},
		cells:      map[string]bool{},
		components: map[Component]bool{},
		onPath:     map[string]bool{},
	}
}

func (e *extractor) addCell(id string) {
	if e.cells[id] {
		return
	}
	e.cells[id] = true
	e.diagram.Cells = append(e.diagram.Cells, id)
}

func (e *extractor) addComponent(cell, name string) {
	c := Component{Cell: cell, Name: name}
	if e.components[c] {
		return
	}
	e.components[c] = true
	e.diagram.Components = append(e.diagram.Components, c)
}

// visit records node's dependencies depth first, then node's own meta info.
func (e *extractor) visit(node *CellMetadata) error {
	id := node.ID()
	if e.onPath[id] {
		return fmt.Errorf("%w: %s -> %s", ErrCyclicDependency, strings.Join(e.path, " -> "), id)
	}
	e.onPath[id] = true
	e.path = append(e.path, id)
	defer func() {
		delete(e.onPath, id)
		e.path = e.path[:len(e.path)-1]
	}()

	for _, alias := range node.Aliases() {
		dep := node.Dependencies[alias]
		depID := dep.ID()

		e.addCell(depID)
		e.diagram.DependencyLinks = append(e.diagram.DependencyLinks, DependencyLink{
			Alias: alias,
			From:  id,
			To:    depID,
		})
		for _, name := range dep.Components {
			e.addComponent(depID, name)
		}

		if err := e.visit(dep); err != nil {
			return err
		}
	}

	if _, done := e.diagram.MetaInfo[id]; !done {
		e.diagram.MetaInfo[id] = buildMetaInfo(node)
	}
	return nil
}

func buildMetaInfo(node *CellMetadata) MetaInfo {
	id := node.ID()
	info := MetaInfo{
		Cell:                     id,
		Type:                     node.CellKind(),
		ComponentDependencyLinks: []ComponentLink{},
	}

	sources := make([]string, 0, len(node.ComponentDep))
	for component := range node.ComponentDep {
		sources = append(sources, component)
	}
	sort.Strings(sources)
	for _, component := range sources {
		for _, target := range node.ComponentDep[component] {
			info.ComponentDependencyLinks = append(info.ComponentDependencyLinks, ComponentLink{
				From: NodeID(id, component),
				To:   NodeID(id, target),
			})
		}
	}

	for _, component := range node.Exposed {
		info.ComponentDependencyLinks = append(info.ComponentDependencyLinks, ComponentLink{
			From: NodeID(id, GatewayNode),
			To:   NodeID(id, component),
		})
	}

	if node.Ingresses != nil {
		info.Ingresses = append(info.Ingresses, node.Ingresses...)
	}
	return info
}
