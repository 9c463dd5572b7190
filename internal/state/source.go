package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/watcher"
)

// ConfigPath is where the portal serves its configuration.
const ConfigPath = "/config"

// ConfigSource produces the portal configuration.
type ConfigSource interface {
	LoadConfig(ctx context.Context) (*hub.PortalConfig, error)
}

// HTTPConfigSource fetches GET {PortalURL}/config.
type HTTPConfigSource struct {
	PortalURL string
	Client    *http.Client
}

// StatusError reports a non-success answer from the portal.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("portal answered %d: %s", e.StatusCode, e.Body)
}

// LoadConfig implements ConfigSource.
func (s *HTTPConfigSource) LoadConfig(ctx context.Context) (*hub.PortalConfig, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := strings.TrimRight(s.PortalURL, "/") + ConfigPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building config request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return decodeConfig(body)
}

// FileConfigSource reads the configuration document from a local file.
type FileConfigSource struct {
	Path string
}

// LoadConfig implements ConfigSource.
func (s *FileConfigSource) LoadConfig(_ context.Context) (*hub.PortalConfig, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return decodeConfig(data)
}

func decodeConfig(data []byte) (*hub.PortalConfig, error) {
	var cfg hub.PortalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding portal config: %w", err)
	}
	return &cfg, nil
}

// WatchConfigFile reloads the configuration through LoadConfig every time
// the file at path changes. It returns once the watch is established; the
// reload loop stops when ctx is done.
func (h *Holder) WatchConfigFile(ctx context.Context, path string, debounce time.Duration) error {
	cfg := watcher.DefaultConfig(path)
	if debounce > 0 {
		cfg.DebounceDur = debounce
	}

	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}

	go func() {
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if _, err := h.LoadConfig(ctx); err != nil {
					// Keep the previous config; a half-written file settles on the next event.
					continue
				}
				log.Info(log.CatState, "portal config reloaded", "path", path)
			}
		}
	}()
	return nil
}
