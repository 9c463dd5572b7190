package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hubctl/internal/domain/hub"
)

var images = []hub.Image{
	{OrgName: "wso2", ImageName: "pet-be", PullCount: 120, Keywords: []string{"db", "petstore"}, Visibility: hub.VisibilityPublic},
	{OrgName: "wso2", ImageName: "pet-fe", PullCount: 30, Keywords: []string{"petstore"}},
	{OrgName: "alice", ImageName: "hello", PullCount: 500, Visibility: hub.VisibilityPrivate},
}

func names(in []hub.Image) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.ImageName)
	}
	return out
}

func TestImageFilter(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{"numeric", "pulls > 100", []string{"pet-be", "hello"}},
		{"keyword membership", `"db" in keywords`, []string{"pet-be"}},
		{"string ops", `org == "wso2" && name startsWith "pet-f"`, []string{"pet-fe"}},
		{"nil keywords", `len(keywords) == 0`, []string{"hello"}},
		{"visibility", `visibility == "PRIVATE"`, []string{"hello"}},
		{"none", "false", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression, ImageEnv)
			require.NoError(t, err)
			got, err := f.Apply(images)
			require.NoError(t, err)
			require.Equal(t, tt.want, names(got))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("  ", ImageEnv)
	require.ErrorIs(t, err, ErrEmptyExpression)

	_, err = Compile("pulls + 1", ImageEnv)
	require.Error(t, err, "non-bool result")

	_, err = Compile("stars > 3", ImageEnv)
	require.Error(t, err, "unknown variable")
}

func TestOrgAndVersionFilters(t *testing.T) {
	of, err := Compile(`images >= 2 && role == "admin"`, OrgEnv)
	require.NoError(t, err)
	ok, err := of.Match(hub.Org{OrgName: "wso2", ImageCount: 3, UserRole: hub.PermissionAdmin})
	require.NoError(t, err)
	require.True(t, ok)

	vf, err := Compile(`version matches "^1\\."`, VersionEnv)
	require.NoError(t, err)
	got, err := vf.Apply([]hub.Version{{Version: "1.0.0"}, {ArtifactVersion: "2.0.0"}, {Version: "1.2.0"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
}
