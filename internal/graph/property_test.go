package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// genCell draws an acyclic metadata tree. Names embed the depth, so a cell id
// never repeats on a path, while siblings and cousins may share ids.
func genCell(rt *rapid.T, depth, maxDepth int) *CellMetadata {
	idx := rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("idx@%d", depth))
	c := &CellMetadata{
		Org:        "o",
		Name:       fmt.Sprintf("c%d-%d", depth, idx),
		Ver:        "1",
		Components: rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 0, 3).Draw(rt, "components"),
	}
	if c.Components == nil {
		c.Components = []string{}
	}
	if depth >= maxDepth {
		return c
	}
	n := rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("deps@%d", depth))
	if n == 0 {
		return c
	}
	c.Dependencies = make(map[string]*CellMetadata, n)
	for i := 0; i < n; i++ {
		c.Dependencies[fmt.Sprintf("alias%d", i)] = genCell(rt, depth+1, maxDepth)
	}
	return c
}

func countAliases(c *CellMetadata) int {
	total := 0
	for _, dep := range c.Dependencies {
		total += 1 + countAliases(dep)
	}
	return total
}

func TestProperty_ExtractIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root := genCell(rt, 0, 3)

		first, err := Extract(root)
		require.NoError(rt, err)
		second, err := Extract(root)
		require.NoError(rt, err)

		require.Equal(rt, first, second)
	})
}

func TestProperty_NodesUniqueEdgesPerTraversal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		root := genCell(rt, 0, 3)

		d, err := Extract(root)
		require.NoError(rt, err)

		require.Equal(rt, root.ID(), d.Root(), "root cell comes first")

		seenCells := map[string]bool{}
		for _, c := range d.Cells {
			require.False(rt, seenCells[c], "duplicate cell %s", c)
			seenCells[c] = true
			require.Contains(rt, d.MetaInfo, c, "every cell has meta info")
		}
		require.Len(rt, d.MetaInfo, len(d.Cells))

		seenComponents := map[Component]bool{}
		for _, c := range d.Components {
			require.False(rt, seenComponents[c], "duplicate component %v", c)
			seenComponents[c] = true
			require.True(rt, seenCells[c.Cell])
		}

		require.Len(rt, d.DependencyLinks, countAliases(root))
		for _, l := range d.DependencyLinks {
			require.True(rt, seenCells[l.From])
			require.True(rt, seenCells[l.To])
		}
	})
}
