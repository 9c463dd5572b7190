package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestVersion_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Next uses tab and n", Version.Next, []string{"tab", "n"}},
		{"Prev uses shift+tab and p", Version.Prev, []string{"shift+tab", "p"}},
		{"Open uses enter", Version.Open, []string{"enter"}},
		{"Back uses esc and backspace", Version.Back, []string{"esc", "backspace"}},
		{"Reload uses r", Version.Reload, []string{"r"}},
		{"Yank uses y", Version.Yank, []string{"y"}},
		{"Quit uses q and ctrl+c", Version.Quit, []string{"q", "ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestVersion_NoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, group := range Version.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestVersion_HelpText(t *testing.T) {
	for _, group := range Version.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Len(t, Version.ShortHelp(), 5)
}
