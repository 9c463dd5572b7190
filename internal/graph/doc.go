// Package graph turns the nested cell metadata of an image version into a
// flat dependency diagram.
//
// A version's metadata describes one cell (org/name:version), its
// components, the component-to-component links inside it, the components
// exposed through its gateway, and the cells it depends on by alias. Each
// dependency carries the same shape, so the metadata is a tree whose depth
// follows the transitive dependencies.
//
// Extract walks that tree depth first and produces a Diagram:
//   - Cells: every distinct cell id, first-seen order, root first
//   - Components: every (cell, component) pair once
//   - MetaInfo: per cell, the component links and ingresses
//   - DependencyLinks: one link per traversed alias, never deduplicated
//
// A cell id that reappears on the path currently being walked is a cycle and
// fails with ErrCyclicDependency. The same cell reached through two different
// paths (a diamond) is fine.
package graph
