// Package flags provides feature flags read from the config file.
// Flags are read-only after initialization; unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/hubctl/internal/log"
)

const (
	// FlagMetadataCache routes image and version lookups through the
	// read-through metadata cache.
	FlagMetadataCache = "metadata-cache"

	// FlagAutoRelogin forgets the stored user when the Hub answers 401 so the
	// next command asks for a new sign-in.
	FlagAutoRelogin = "auto-relogin"
)

// Defaults returns the value of every known flag when the config is silent.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagMetadataCache: true,
		FlagAutoRelogin:   true,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from Defaults overlaid with the configured values.
func New(configured map[string]bool) *Registry {
	flags := Defaults()
	maps.Copy(flags, configured)
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name, "result", false)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}

// Names returns the flag names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.All()))
}
