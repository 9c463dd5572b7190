package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hubctl/internal/domain/hub"
)

func TestLoadConfig_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/config", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"hubApiUrl":"https://api.hub.test","idp":{"url":"https://idp.test","clientId":"portal"}}`))
	}))
	defer srv.Close()

	h := New(WithConfigSource(&HTTPConfigSource{PortalURL: srv.URL + "/", Client: srv.Client()}))
	var calls []call
	h.AddListener(KeyConfig, record(&calls))

	cfg, err := h.LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://api.hub.test", cfg.HubAPIURL)
	require.Equal(t, "portal", cfg.IdP.ClientID)
	require.Same(t, cfg, h.Config())
	require.Len(t, calls, 1)
}

func TestLoadConfig_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	h := New(WithConfigSource(&HTTPConfigSource{PortalURL: srv.URL}))
	before := h.Config()

	_, err := h.LoadConfig(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.StatusCode)
	require.Same(t, before, h.Config())
}

func TestLoadConfig_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	h := New(WithConfigSource(&HTTPConfigSource{PortalURL: srv.URL}))
	_, err := h.LoadConfig(context.Background())
	require.ErrorContains(t, err, "decoding portal config")
}

func TestLoadConfig_NoSource(t *testing.T) {
	_, err := New().LoadConfig(context.Background())
	require.ErrorIs(t, err, ErrNoConfigSource)
}

func TestFileConfigSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hubApiUrl":"http://local"}`), 0o600))

	cfg, err := (&FileConfigSource{Path: path}).LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, &hub.PortalConfig{HubAPIURL: "http://local"}, cfg)

	_, err = (&FileConfigSource{Path: path + ".missing"}).LoadConfig(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchConfigFile_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hubApiUrl":"http://one"}`), 0o600))

	h := New(WithConfigSource(&FileConfigSource{Path: path}))
	_, err := h.LoadConfig(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan string, 4)
	h.AddListener(KeyConfig, func(_ string, _, v any) {
		reloaded <- v.(*hub.PortalConfig).HubAPIURL
	})
	require.NoError(t, h.WatchConfigFile(ctx, path, 20*time.Millisecond))

	require.NoError(t, os.WriteFile(path, []byte(`{"hubApiUrl":"http://two"}`), 0o600))

	select {
	case got := <-reloaded:
		require.Equal(t, "http://two", got)
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
