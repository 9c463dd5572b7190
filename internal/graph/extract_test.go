package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func cell(org, name, ver string, components ...string) *CellMetadata {
	if components == nil {
		components = []string{}
	}
	return &CellMetadata{Org: org, Name: name, Ver: ver, Components: components}
}

func TestExtract_NoDependencies(t *testing.T) {
	root := cell("org", "name", "ver", "a", "b")

	d, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, []string{"org/name:ver"}, d.Cells)
	require.Equal(t, []Component{
		{Cell: "org/name:ver", Name: "a"},
		{Cell: "org/name:ver", Name: "b"},
	}, d.Components)
	require.Empty(t, d.DependencyLinks)
	require.NotNil(t, d.DependencyLinks, "links serialize as [] rather than null")
	require.Contains(t, d.MetaInfo, "org/name:ver")
}

func TestExtract_SingleDependency(t *testing.T) {
	root := cell("o", "x", "1", "portal")
	root.Dependencies = map[string]*CellMetadata{
		"dep1": cell("o", "y", "2", "c1"),
	}

	d, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, []string{"o/x:1", "o/y:2"}, d.Cells)
	require.Equal(t, []DependencyLink{{Alias: "dep1", From: "o/x:1", To: "o/y:2"}}, d.DependencyLinks)
	require.Equal(t, []Component{
		{Cell: "o/x:1", Name: "portal"},
		{Cell: "o/y:2", Name: "c1"},
	}, d.Components)
	require.Len(t, d.MetaInfo, 2)
}

func TestExtract_SharedDependencyDedupsNodesNotEdges(t *testing.T) {
	root := cell("o", "x", "1", "a")
	root.Dependencies = map[string]*CellMetadata{
		"primary":   cell("o", "db", "1", "mysql"),
		"secondary": cell("o", "db", "1", "mysql"),
	}

	d, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, []string{"o/x:1", "o/db:1"}, d.Cells)
	require.Equal(t, []DependencyLink{
		{Alias: "primary", From: "o/x:1", To: "o/db:1"},
		{Alias: "secondary", From: "o/x:1", To: "o/db:1"},
	}, d.DependencyLinks)
	require.Equal(t, []string{"mysql"}, d.ComponentsOf("o/db:1"))
}

func TestExtract_TransitiveDependenciesAreDepthFirst(t *testing.T) {
	leaf := cell("o", "leaf", "1", "l")
	mid := cell("o", "mid", "1", "m")
	mid.Dependencies = map[string]*CellMetadata{"leaf": leaf}
	root := cell("o", "root", "1", "r")
	root.Dependencies = map[string]*CellMetadata{
		"a-mid":   mid,
		"b-other": cell("o", "other", "1", "x"),
	}

	d, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, []string{"o/root:1", "o/mid:1", "o/leaf:1", "o/other:1"}, d.Cells)
	require.Equal(t, []DependencyLink{
		{Alias: "a-mid", From: "o/root:1", To: "o/mid:1"},
		{Alias: "leaf", From: "o/mid:1", To: "o/leaf:1"},
		{Alias: "b-other", From: "o/root:1", To: "o/other:1"},
	}, d.DependencyLinks)
}

func TestExtract_DiamondRepeatsDownstreamEdges(t *testing.T) {
	shared := func() *CellMetadata {
		c := cell("o", "shared", "1", "s")
		c.Dependencies = map[string]*CellMetadata{"base": cell("o", "base", "1", "b")}
		return c
	}
	left := cell("o", "left", "1")
	left.Dependencies = map[string]*CellMetadata{"shared": shared()}
	right := cell("o", "right", "1")
	right.Dependencies = map[string]*CellMetadata{"shared": shared()}
	root := cell("o", "root", "1")
	root.Dependencies = map[string]*CellMetadata{"left": left, "right": right}

	d, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, []string{"o/root:1", "o/left:1", "o/shared:1", "o/base:1", "o/right:1"}, d.Cells)
	require.Len(t, d.DependencyLinks, 6, "shared->base is traversed once per path")
	require.Len(t, d.MetaInfo, 5)
}

func TestExtract_MetaInfo(t *testing.T) {
	root := cell("o", "x", "1", "portal", "api", "db")
	root.ComponentDep = map[string][]string{
		"portal": {"api"},
		"api":    {"db"},
	}
	root.Exposed = []string{"portal"}
	root.Ingresses = []json.RawMessage{json.RawMessage(`"HTTP"`), json.RawMessage(`{"type":"GRPC"}`)}

	d, err := Extract(root)
	require.NoError(t, err)

	info := d.MetaInfo["o/x:1"]
	require.Equal(t, "o/x:1", info.Cell)
	require.Equal(t, KindCell, info.Type)
	require.Equal(t, []ComponentLink{
		{From: "o/x:1 api", To: "o/x:1 db"},
		{From: "o/x:1 portal", To: "o/x:1 api"},
		{From: "o/x:1 gateway", To: "o/x:1 portal"},
	}, info.ComponentDependencyLinks)
	require.Len(t, info.Ingresses, 2)
	require.JSONEq(t, `{"type":"GRPC"}`, string(info.Ingresses[1]))
}

func TestExtract_MetaInfoFirstVisitWins(t *testing.T) {
	first := cell("o", "db", "1", "mysql")
	first.Exposed = []string{"mysql"}
	second := cell("o", "db", "1", "mysql")

	root := cell("o", "x", "1")
	root.Dependencies = map[string]*CellMetadata{"a": first, "b": second}

	d, err := Extract(root)
	require.NoError(t, err)
	require.Len(t, d.MetaInfo["o/db:1"].ComponentDependencyLinks, 1)
}

func TestExtract_CompositeKind(t *testing.T) {
	root := cell("o", "x", "1", "a")
	root.Kind = KindComposite

	d, err := Extract(root)
	require.NoError(t, err)
	require.Equal(t, KindComposite, d.MetaInfo["o/x:1"].Type)
}

func TestExtract_CycleByIDFails(t *testing.T) {
	// Nested copies of the same cell id: finite input, but a cycle in the
	// dependency graph.
	inner := cell("o", "a", "1")
	b := cell("o", "b", "1")
	b.Dependencies = map[string]*CellMetadata{"back": inner}
	root := cell("o", "a", "1")
	root.Dependencies = map[string]*CellMetadata{"b": b}

	d, err := Extract(root)
	require.ErrorIs(t, err, ErrCyclicDependency)
	require.Nil(t, d)
	require.Contains(t, err.Error(), "o/a:1 -> o/b:1 -> o/a:1")
}

func TestExtract_CycleByPointerFails(t *testing.T) {
	a := cell("o", "a", "1")
	b := cell("o", "b", "1")
	a.Dependencies = map[string]*CellMetadata{"b": b}
	b.Dependencies = map[string]*CellMetadata{"a": a}

	_, err := Extract(a)
	require.ErrorIs(t, err, ErrCyclicDependency)
}

func TestExtract_SelfDependencyFails(t *testing.T) {
	root := cell("o", "a", "1")
	root.Dependencies = map[string]*CellMetadata{"self": cell("o", "a", "1")}

	_, err := Extract(root)
	require.ErrorIs(t, err, ErrCyclicDependency)
}

func TestExtract_MissingComponentsFails(t *testing.T) {
	root := cell("o", "x", "1")
	root.Dependencies = map[string]*CellMetadata{
		"db": {Org: "o", Name: "db", Ver: "1"},
	}

	_, err := Extract(root)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "dependencies.db", decodeErr.Path)
}

func TestExtract_Idempotent(t *testing.T) {
	root := cell("o", "x", "1", "a")
	root.Dependencies = map[string]*CellMetadata{
		"one": cell("o", "y", "1", "b"),
		"two": cell("o", "y", "1", "b"),
	}

	first, err := Extract(root)
	require.NoError(t, err)
	second, err := Extract(root)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.NotSame(t, first, second)
}
