package hubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hubctl/internal/cachemanager"
	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/graph"
	"github.com/zjrosen/hubctl/internal/state"
)

func TestListEndpoints_QueryStrings(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(`{"count":1,"data":[{}]}`))
	})
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() (int, error)
		wantPath  string
		wantQuery string
	}{
		{
			name: "orgs",
			call: func() (int, error) {
				r, err := c.ListOrgs(ctx, OrgQuery{OrgName: Contains("ws"), Limit: 10, Offset: 20})
				return r.Count, err
			},
			wantPath:  "/api/orgs",
			wantQuery: "offset=20&orgName=*ws*&resultLimit=10",
		},
		{
			name: "user orgs",
			call: func() (int, error) {
				r, err := c.ListUserOrgs(ctx, "u-1", OrgQuery{})
				return r.Count, err
			},
			wantPath:  "/api/orgs/users/u-1",
			wantQuery: "orgName=*",
		},
		{
			name: "images",
			call: func() (int, error) {
				r, err := c.ListImages(ctx, ImageQuery{OrgName: "wso2", OrderBy: hub.SortMostPopular, Limit: 5})
				return r.Count, err
			},
			wantPath:  "/api/images",
			wantQuery: "imageName=*&orderBy=most-popular&orgName=wso2&resultLimit=5",
		},
		{
			name: "user images",
			call: func() (int, error) {
				r, err := c.ListUserImages(ctx, "u-1", ImageQuery{ImageName: Contains("pet")})
				return r.Count, err
			},
			wantPath:  "/api/images/users/u-1",
			wantQuery: "imageName=*pet*&orgName=*",
		},
		{
			name: "versions",
			call: func() (int, error) {
				r, err := c.ListVersions(ctx, "wso2", "pet-be", VersionQuery{OrderBy: hub.SortRecentlyUpdated})
				return r.Count, err
			},
			wantPath:  "/api/artifacts/wso2/pet-be/",
			wantQuery: "artifactVersion=*&orderBy=last-updated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := tt.call()
			require.NoError(t, err)
			require.Equal(t, 1, count)
			require.Equal(t, tt.wantPath, gotPath)
			require.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestCreateOrg_SendsCaptchaHeader(t *testing.T) {
	var captcha string
	var body CreateOrgRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		captcha = r.Header.Get(hub.CaptchaHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.CreateOrg(context.Background(), CreateOrgRequest{OrgName: "wso2", CaptchaToken: "cap"}))
	require.Equal(t, "cap", captcha)
	require.Equal(t, "wso2", body.OrgName)

	require.Error(t, c.CreateOrg(context.Background(), CreateOrgRequest{OrgName: "Bad Name"}))
}

func TestOrgExists(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orgs/taken":
			_, _ = w.Write([]byte(`{"orgName":"taken"}`))
		case "/api/orgs/free":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	ok, err := c.OrgExists(ctx, "taken")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.OrgExists(ctx, "free")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = c.OrgExists(ctx, "broken")
	require.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

const versionJSON = `{
	"version": "1.0.0",
	"description": "# Pet store",
	"userRole": "push",
	"metadata": {
		"org": "wso2", "name": "pet-be", "ver": "1.0.0", "kind": "Cell",
		"components": ["controller"],
		"dependencies": {"db": {"org": "wso2", "name": "mysql", "ver": "5.7", "components": ["mysql"]}}
	}
}`

func TestGetVersion_DecodesMetadata(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/artifacts/wso2/pet-be/1.0.0", r.URL.Path)
		_, _ = w.Write([]byte(versionJSON))
	})

	v, err := c.GetVersion(context.Background(), "wso2", "pet-be", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, "1.0.0", v.Name())
	require.Equal(t, "wso2", v.OrgName)
	require.Equal(t, "pet-be", v.ImageName)
	require.True(t, v.CanPush())
	require.False(t, v.CanDelete())
	require.NotNil(t, v.Metadata)
	require.Equal(t, "wso2/pet-be:1.0.0", v.Metadata.ID())
	require.Equal(t, []string{"db"}, v.Metadata.Aliases())
}

func TestGetVersion_InvalidMetadata(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version":"1","metadata":{"org":"o","name":"n","ver":"1","components":["a"],"dependencies":{"db":{"org":"o","name":"m"}}}}`))
	})

	_, err := c.GetVersion(context.Background(), "o", "n", "1")
	var de *graph.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "dependencies.db", de.Path)
}

func TestMetadataCache_HitsAndEvictions(t *testing.T) {
	var versionHits, imageHits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/artifacts/wso2/pet-be/1.0.0":
			versionHits.Add(1)
			_, _ = w.Write([]byte(versionJSON))
		case r.Method == http.MethodGet && r.URL.Path == "/api/images/wso2/pet-be":
			imageHits.Add(1)
			_, _ = w.Write([]byte(`{"orgName":"wso2","imageName":"pet-be"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
	images := cachemanager.NewInMemoryCacheManager[string, *hub.Image]("images", time.Minute, time.Minute)
	versions := cachemanager.NewInMemoryCacheManager[string, *hub.Version]("versions", time.Minute, time.Minute)
	c, _ := newTestClient(t, handler, WithMetadataCache(images, versions, time.Minute))
	ctx := context.Background()

	for range 3 {
		_, err := c.GetVersion(ctx, "wso2", "pet-be", "1.0.0")
		require.NoError(t, err)
		_, err = c.GetImage(ctx, "wso2", "pet-be")
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), versionHits.Load())
	require.Equal(t, int32(1), imageHits.Load())

	require.NoError(t, c.UpdateVersion(ctx, "wso2", "pet-be", "1.0.0", VersionUpdate{Description: "new"}))
	require.NoError(t, c.UpdateImage(ctx, "wso2", "pet-be", ImageUpdate{Summary: "s"}))
	_, err := c.GetVersion(ctx, "wso2", "pet-be", "1.0.0")
	require.NoError(t, err)
	_, err = c.GetImage(ctx, "wso2", "pet-be")
	require.NoError(t, err)
	require.Equal(t, int32(2), versionHits.Load())
	require.Equal(t, int32(2), imageHits.Load())

	require.NoError(t, c.DeleteVersion(ctx, "wso2", "pet-be", "1.0.0"))
	require.NoError(t, c.DeleteImage(ctx, "wso2", "pet-be"))
	require.Zero(t, versions.Len())
	require.Zero(t, images.Len())
}

func TestWithoutCache_AlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"orgName":"o","imageName":"i"}`))
	})

	for range 2 {
		_, err := c.GetImage(context.Background(), "o", "i")
		require.NoError(t, err)
	}
	require.Equal(t, int32(2), hits.Load())
}

func TestUpdateImage_SendsEmptyKeywords(t *testing.T) {
	var body map[string]any
	c, _ := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	})

	require.NoError(t, c.UpdateImage(context.Background(), "o", "i", ImageUpdate{Summary: "s"}))
	require.Equal(t, []any{}, body["keywords"])
}

func TestTokenEndpoints(t *testing.T) {
	c, holder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/tokens/the-code":
			require.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"accessToken":"a","idToken":"i"}`))
		case "/api/auth/token":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "id-token", body["jwt"])
			_, _ = w.Write([]byte(`{"accessToken":"pat"}`))
		case "/api/auth/revoke":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "pat", body["token"])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	tokens, err := c.ExchangeCode(ctx, "the-code")
	require.NoError(t, err)
	require.Equal(t, &hub.Tokens{AccessToken: "a", IDToken: "i"}, tokens)

	_, err = c.GenerateToken(ctx)
	require.ErrorIs(t, err, ErrNotSignedIn)

	holder.Set(state.KeyUser, &hub.User{Username: "alice", AccessToken: "a", IDToken: "id-token"})
	pat, err := c.GenerateToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "pat", pat.AccessToken)
	require.NoError(t, c.RevokeTokens(ctx, pat.AccessToken))
}
