package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "default on",
			registry: New(nil),
			flag:     FlagMetadataCache,
			expected: true,
		},
		{
			name:     "config turns default off",
			registry: New(map[string]bool{FlagAutoRelogin: false}),
			flag:     FlagAutoRelogin,
			expected: false,
		},
		{
			name:     "extra configured flag",
			registry: New(map[string]bool{"feature-a": true}),
			flag:     "feature-a",
			expected: true,
		},
		{
			name:     "unknown flag returns false",
			registry: New(nil),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagMetadataCache,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	in := map[string]bool{FlagMetadataCache: false}
	r := New(in)
	in[FlagMetadataCache] = true

	require.False(t, r.Enabled(FlagMetadataCache))
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := New(nil)
	all := r.All()
	all[FlagMetadataCache] = false

	require.True(t, r.Enabled(FlagMetadataCache))
	require.Empty(t, (*Registry)(nil).All())
}

func TestRegistry_Names(t *testing.T) {
	r := New(map[string]bool{"zeta": true})
	require.Equal(t, []string{FlagAutoRelogin, FlagMetadataCache, "zeta"}, r.Names())
}
