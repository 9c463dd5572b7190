package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_Valid(t *testing.T) {
	m, err := Decode([]byte(`{
		"org": "wso2", "name": "pet-fe", "ver": "1.0.0",
		"components": ["portal"],
		"exposed": ["portal"],
		"dependencies": {
			"petStoreBackend": {"org": "wso2", "name": "pet-be", "ver": "1.0.0", "components": ["controller", "orders"]}
		}
	}`))
	require.NoError(t, err)
	require.Equal(t, "wso2/pet-fe:1.0.0", m.ID())
	require.Equal(t, []string{"petStoreBackend"}, m.Aliases())
	require.Equal(t, "wso2/pet-be:1.0.0", m.Dependencies["petStoreBackend"].ID())
}

func TestDecode_EmptyComponentsIsValid(t *testing.T) {
	m, err := Decode([]byte(`{"org":"o","name":"n","ver":"1","components":[]}`))
	require.NoError(t, err)
	require.Empty(t, m.Components)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantMsg  string
	}{
		{name: "not json", input: `{`, wantMsg: "invalid cell metadata"},
		{name: "missing org", input: `{"name":"n","ver":"1","components":[]}`, wantMsg: `missing "org"`},
		{name: "missing components", input: `{"org":"o","name":"n","ver":"1"}`, wantMsg: `missing "components"`},
		{
			name:     "nested missing version",
			input:    `{"org":"o","name":"n","ver":"1","components":[],"dependencies":{"db":{"org":"o","name":"db","components":[]}}}`,
			wantPath: "dependencies.db",
			wantMsg:  `missing "ver"`,
		},
		{
			name:     "null dependency",
			input:    `{"org":"o","name":"n","ver":"1","components":[],"dependencies":{"db":null}}`,
			wantPath: "dependencies.db",
			wantMsg:  "dependency is null",
		},
		{
			name:     "unknown kind",
			input:    `{"org":"o","name":"n","ver":"1","kind":"Pod","components":[]}`,
			wantPath: "kind",
			wantMsg:  "unknown kind",
		},
		{name: "wrong component type", input: `{"org":"o","name":"n","ver":"1","components":{"a":{}}}`, wantMsg: "cannot unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.Equal(t, tt.wantPath, decodeErr.Path)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParseCellID(t *testing.T) {
	ref, err := ParseCellID("wso2/pet-be:1.0.0")
	require.NoError(t, err)
	require.Equal(t, CellRef{Org: "wso2", Name: "pet-be", Version: "1.0.0"}, ref)
	require.Equal(t, "wso2/pet-be:1.0.0", ref.String())

	for _, bad := range []string{"", "wso2", "wso2/pet-be", "/pet:1", "wso2/:1", "wso2/pet:", "a/b/c:1"} {
		_, err := ParseCellID(bad)
		require.ErrorIs(t, err, ErrInvalidCellID, "input %q", bad)
	}
}
