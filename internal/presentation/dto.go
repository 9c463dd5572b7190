package presentation

import (
	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/graph"
)

// ListDTO is a page of results with the server-side total.
type ListDTO[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// DependencyDTO is one direct dependency of a version.
type DependencyDTO struct {
	Alias string `json:"alias"`
	Cell  string `json:"cell"`
	Kind  string `json:"kind"`
}

// VersionDTO represents a version with its flattened cell metadata.
type VersionDTO struct {
	Cell         string          `json:"cell"`
	Org          string          `json:"org"`
	Image        string          `json:"image"`
	Version      string          `json:"version"`
	Description  string          `json:"description,omitempty"`
	PullCount    int64           `json:"pullCount"`
	LastAuthor   string          `json:"lastAuthor,omitempty"`
	Updated      string          `json:"updated,omitempty"`
	Role         string          `json:"role,omitempty"`
	Kind         string          `json:"kind,omitempty"`
	Components   []string        `json:"components"`
	Dependencies []DependencyDTO `json:"dependencies"` // always present, sorted by alias
}

// FromVersion converts a domain version to a DTO.
func FromVersion(v *hub.Version) VersionDTO {
	dto := VersionDTO{
		Cell:         graph.CellID(v.OrgName, v.ImageName, v.Name()),
		Org:          v.OrgName,
		Image:        v.ImageName,
		Version:      v.Name(),
		Description:  v.Description,
		PullCount:    v.PullCount,
		LastAuthor:   v.LastAuthor,
		Updated:      v.UpdatedTimestamp,
		Role:         v.UserRole,
		Components:   []string{},
		Dependencies: []DependencyDTO{},
	}
	md := v.Metadata
	if md == nil {
		return dto
	}

	dto.Kind = md.CellKind()
	dto.Components = append(dto.Components, md.Components...)
	for _, alias := range md.Aliases() {
		dep := md.Dependencies[alias]
		if dep == nil {
			continue
		}
		dto.Dependencies = append(dto.Dependencies, DependencyDTO{
			Alias: alias,
			Cell:  dep.ID(),
			Kind:  dep.CellKind(),
		})
	}
	return dto
}

// FromList converts a Hub list envelope.
func FromList[T any](res *hub.ListResult[T]) ListDTO[T] {
	if res == nil {
		return ListDTO[T]{Items: []T{}}
	}
	items := res.Data
	if items == nil {
		items = []T{}
	}
	return ListDTO[T]{Total: res.Count, Items: items}
}
