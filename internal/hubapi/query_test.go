package hubapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{name: "empty", input: "", want: map[string]any{}},
		{name: "only question mark", input: "?", want: map[string]any{}},
		{name: "pairs", input: "?a=1&b=two", want: map[string]any{"a": "1", "b": "two"}},
		{name: "no leading mark", input: "a=1", want: map[string]any{"a": "1"}},
		{name: "flag", input: "?debug", want: map[string]any{"debug": true}},
		{name: "empty value", input: "?k=", want: map[string]any{"k": true}},
		{name: "extra equals", input: "?k=a=b", want: map[string]any{"k": true}},
		{name: "empty key skipped", input: "?=x&a=1", want: map[string]any{"a": "1"}},
		{name: "decoded", input: "?redirect=https%3A%2F%2Fx.test%2Fa%20b&q=a+b", want: map[string]any{"redirect": "https://x.test/a b", "q": "a+b"}},
		{name: "malformed escape kept", input: "?k=%zz", want: map[string]any{"k": "%zz"}},
		{name: "last wins", input: "?k=1&k=2", want: map[string]any{"k": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseQueryParams(tt.input))
		})
	}
}

func TestGenerateQueryParamString(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    string
		wantErr string
	}{
		{name: "nil map", params: nil, want: ""},
		{name: "only nils", params: map[string]any{"a": nil}, want: ""},
		{name: "sorted keys", params: map[string]any{"b": "2", "a": 1}, want: "?a=1&b=2"},
		{name: "bool and float", params: map[string]any{"x": true, "y": 0.5}, want: "?x=true&y=0.5"},
		{name: "escapes like a uri component", params: map[string]any{"q": "a b&c/d*e(f)!'~"}, want: "?q=a%20b%26c%2Fd*e(f)!'~"},
		{name: "wildcard", params: map[string]any{"orgName": "*"}, want: "?orgName=*"},
		{name: "unsupported", params: map[string]any{"k": []string{"a"}}, wantErr: `query param "k"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateQueryParamString(tt.params)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestQueryRoundTrip(t *testing.T) {
	in := map[string]any{"orgName": "*wso2*", "redirect_uri": "http://localhost:3000/sign-in?x=1", "fidp": "github"}
	qs, err := GenerateQueryParamString(in)
	require.NoError(t, err)
	require.Equal(t, in, ParseQueryParams(qs))
}
