package graph

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares the rendered trees of two diagrams line by line. Unchanged
// lines are prefixed with two spaces, removed lines with "- " and added lines
// with "+ ". Returns "" when the trees are identical.
func Diff(from, to *Diagram) string {
	a, b := RenderTree(from), RenderTree(to)
	if a == b {
		return ""
	}

	dmp := diffmatchpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
		}
	}
	return sb.String()
}
