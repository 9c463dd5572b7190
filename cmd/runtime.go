package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zjrosen/hubctl/internal/auth"
	"github.com/zjrosen/hubctl/internal/cachemanager"
	"github.com/zjrosen/hubctl/internal/config"
	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/flags"
	"github.com/zjrosen/hubctl/internal/hubapi"
	"github.com/zjrosen/hubctl/internal/infrastructure/sqlite"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/state"
	"github.com/zjrosen/hubctl/internal/tracing"
)

const configFetchTimeout = 10 * time.Second

// runtime is the set of services a command works with.
type runtime struct {
	cfg    config.Config
	flags  *flags.Registry
	holder *state.Holder
	db     *sqlite.DB
	tracer *tracing.Provider
	client *hubapi.Client
	auth   *auth.Manager
}

// newRuntime loads the portal config into a fresh state holder, opens the
// session database and restores the signed-in user.
func newRuntime(ctx context.Context, c config.Config) (*runtime, error) {
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	rt := &runtime{cfg: c, flags: flags.New(c.Flags)}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      c.Tracing.Enabled,
		Exporter:     c.Tracing.Exporter,
		FilePath:     orDefault(c.Tracing.FilePath, config.DefaultTracesFilePath()),
		OTLPEndpoint: c.Tracing.OTLPEndpoint,
		SampleRate:   c.Tracing.SampleRate,
		ServiceName:  "hubctl",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	rt.tracer = provider

	var source state.ConfigSource = &state.HTTPConfigSource{
		PortalURL: c.PortalURL,
		Client:    &http.Client{Timeout: configFetchTimeout},
	}
	if c.PortalConfigFile != "" {
		source = &state.FileConfigSource{Path: c.PortalConfigFile}
	}
	rt.holder = state.New(state.WithConfigSource(source))

	if _, err := rt.holder.LoadConfig(ctx); err != nil && c.HubAPIURL == "" {
		rt.Close()
		return nil, fmt.Errorf("loading portal config: %w", err)
	} else if err != nil {
		log.Warn(log.CatConfig, "portal config unavailable, using hub_api_url", "error", err)
	}

	db, err := sqlite.NewDB(c.SessionDB)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	rt.db = db

	var opts []hubapi.Option
	if provider.Enabled() {
		opts = append(opts, hubapi.WithTracer(provider.Tracer()))
	}
	if c.HubAPIURL != "" {
		opts = append(opts, hubapi.WithBaseURL(c.HubAPIURL))
	}
	if c.Cache.Enabled && rt.flags.Enabled(flags.FlagMetadataCache) {
		opts = append(opts, hubapi.WithMetadataCache(
			cachemanager.NewInMemoryCacheManager[string, *hub.Image]("images", c.Cache.TTL, 2*c.Cache.TTL),
			cachemanager.NewInMemoryCacheManager[string, *hub.Version]("versions", c.Cache.TTL, 2*c.Cache.TTL),
			c.Cache.TTL,
		))
	}

	// The client and the manager refer to each other through the hook.
	var mgr *auth.Manager
	if rt.flags.Enabled(flags.FlagAutoRelogin) {
		opts = append(opts, hubapi.WithUnauthorizedHook(func(ctx context.Context) {
			mgr.HandleUnauthorized(ctx)
		}))
	}
	rt.client = hubapi.New(rt.holder, opts...)
	mgr = auth.NewManager(rt.holder, db.SessionStore(), rt.client)
	rt.auth = mgr

	if _, err := mgr.RestoreUser(ctx); err != nil {
		log.ErrorErr(log.CatAuth, "restoring session failed", err)
	}
	return rt, nil
}

// requireUser returns the signed-in user or hubapi.ErrNotSignedIn.
func (rt *runtime) requireUser() (*hub.User, error) {
	if u := rt.holder.User(); u != nil {
		return u, nil
	}
	return nil, hubapi.ErrNotSignedIn
}

// Close releases the database and flushes pending spans.
func (rt *runtime) Close() {
	if rt.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.tracer.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "closing session database failed", err)
		}
	}
	if rt.holder != nil {
		rt.holder.Close()
	}
}

// withRuntime wraps a command body with runtime setup and teardown.
func withRuntime(ctx context.Context, fn func(rt *runtime) error) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := fn(rt); err != nil {
		if errors.Is(err, hubapi.ErrNotSignedIn) {
			return fmt.Errorf("%w: run 'hubctl login' first", err)
		}
		return err
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
