package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Cell kinds.
const (
	KindCell      = "Cell"
	KindComposite = "Composite"
)

// ErrInvalidCellID is returned when a cell id is not "org/name:version".
var ErrInvalidCellID = errors.New("invalid cell id")

// CellMetadata is the recursive metadata of a cell image version.
type CellMetadata struct {
	Org          string                   `json:"org"`
	Name         string                   `json:"name"`
	Ver          string                   `json:"ver"`
	Kind         string                   `json:"kind,omitempty"`
	Components   []string                 `json:"components"`
	Dependencies map[string]*CellMetadata `json:"dependencies,omitempty"`
	ComponentDep map[string][]string      `json:"componentDep,omitempty"`
	Exposed      []string                 `json:"exposed,omitempty"`
	Ingresses    []json.RawMessage        `json:"ingresses,omitempty"`
}

// ID returns the canonical "org/name:ver" id of the cell.
func (m *CellMetadata) ID() string {
	return CellID(m.Org, m.Name, m.Ver)
}

// CellKind returns the declared kind, defaulting to KindCell.
func (m *CellMetadata) CellKind() string {
	if m.Kind == "" {
		return KindCell
	}
	return m.Kind
}

// Aliases returns the dependency aliases in sorted order.
func (m *CellMetadata) Aliases() []string {
	aliases := make([]string, 0, len(m.Dependencies))
	for alias := range m.Dependencies {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// CellID builds a canonical cell id.
func CellID(org, name, ver string) string {
	return fmt.Sprintf("%s/%s:%s", org, name, ver)
}

// CellRef is a parsed cell id.
type CellRef struct {
	Org     string
	Name    string
	Version string
}

// String returns the canonical id.
func (r CellRef) String() string {
	return CellID(r.Org, r.Name, r.Version)
}

// ParseCellID parses "org/name:version".
func ParseCellID(id string) (CellRef, error) {
	org, rest, ok := strings.Cut(id, "/")
	if !ok || org == "" {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidCellID, id)
	}
	name, ver, ok := strings.Cut(rest, ":")
	if !ok || name == "" || ver == "" || strings.Contains(name, "/") {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidCellID, id)
	}
	return CellRef{Org: org, Name: name, Version: ver}, nil
}

// DecodeError reports malformed metadata at a JSON path.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "invalid cell metadata: " + e.Reason
	}
	return fmt.Sprintf("invalid cell metadata at %s: %s", e.Path, e.Reason)
}

// Decode parses and validates cell metadata.
func Decode(data []byte) (*CellMetadata, error) {
	var m CellMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields the extractor relies on, for m and every
// dependency below it. Cyclic pointer structures fail with ErrCyclicDependency.
func Validate(m *CellMetadata) error {
	return validate(m, "", map[*CellMetadata]bool{})
}

func validate(m *CellMetadata, path string, onPath map[*CellMetadata]bool) error {
	if m == nil {
		return &DecodeError{Path: path, Reason: "dependency is null"}
	}
	if onPath[m] {
		return fmt.Errorf("%w: %s", ErrCyclicDependency, m.ID())
	}
	for _, f := range []struct{ name, value string }{
		{"org", m.Org}, {"name", m.Name}, {"ver", m.Ver},
	} {
		if f.value == "" {
			return &DecodeError{Path: path, Reason: fmt.Sprintf("missing %q", f.name)}
		}
	}
	if m.Components == nil {
		return &DecodeError{Path: path, Reason: `missing "components"`}
	}
	if m.Kind != "" && m.Kind != KindCell && m.Kind != KindComposite {
		return &DecodeError{Path: join(path, "kind"), Reason: fmt.Sprintf("unknown kind %q", m.Kind)}
	}

	onPath[m] = true
	defer delete(onPath, m)
	for _, alias := range m.Aliases() {
		if err := validate(m.Dependencies[alias], join(path, "dependencies."+alias), onPath); err != nil {
			return err
		}
	}
	return nil
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
