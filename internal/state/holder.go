package state

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/pubsub"
)

// Well-known keys.
const (
	KeyConfig = "config"
	KeyUser   = "user"
)

// ErrNoConfigSource is returned by LoadConfig when the Holder was built without one.
var ErrNoConfigSource = errors.New("no portal config source configured")

// Listener is called with the key and the previous and new values.
type Listener func(key string, oldValue, newValue any)

// ListenerID identifies a registered listener for RemoveListener.
type ListenerID uint64

// Change is the payload published for every notification.
type Change struct {
	Key      string
	OldValue any
	NewValue any
}

type registration struct {
	id ListenerID
	fn Listener
}

type slot struct {
	value     any
	stored    bool
	listeners []registration
}

// Holder is the observable store. The zero value is not usable; call New.
type Holder struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	nextID ListenerID

	source ConfigSource
	broker *pubsub.Broker[Change]
}

// Option configures a Holder.
type Option func(*Holder)

// WithConfigSource sets where LoadConfig fetches the portal configuration from.
func WithConfigSource(src ConfigSource) Option {
	return func(h *Holder) {
		h.source = src
	}
}

// WithBroker replaces the change broker, mainly so tests can size its buffer.
func WithBroker(b *pubsub.Broker[Change]) Option {
	return func(h *Holder) {
		h.broker = b
	}
}

// New creates a Holder whose config slot starts as an empty PortalConfig.
func New(opts ...Option) *Holder {
	h := &Holder{
		slots: map[string]*slot{
			KeyConfig: {value: &hub.PortalConfig{}, stored: true},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.broker == nil {
		h.broker = pubsub.NewBroker[Change]()
	}
	return h
}

// Set stores value under key and notifies listeners if it changed.
// An empty key is ignored.
func (h *Holder) Set(key string, value any) {
	if key == "" {
		return
	}

	h.mu.Lock()
	s := h.slotLocked(key)
	old := s.value
	s.value = value
	s.stored = true
	listeners := s.snapshot()
	h.mu.Unlock()

	h.notify(pubsub.ChangedEvent, key, old, value, listeners)
}

// Unset clears the value under key. Keys that were never used are ignored.
func (h *Holder) Unset(key string) {
	if key == "" {
		return
	}

	h.mu.Lock()
	s, ok := h.slots[key]
	if !ok {
		h.mu.Unlock()
		return
	}
	old := s.value
	s.value = nil
	s.stored = true
	listeners := s.snapshot()
	h.mu.Unlock()

	h.notify(pubsub.ClearedEvent, key, old, nil, listeners)
}

// Get returns the value stored under key, or def when nothing was ever stored.
func (h *Holder) Get(key string, def any) any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if s, ok := h.slots[key]; ok && s.stored {
		return s.value
	}
	return def
}

// Has reports whether a value was ever stored under key.
func (h *Holder) Has(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.slots[key]
	return ok && s.stored
}

// AddListener registers fn for changes to key. Listeners run in
// registration order. A nil fn is ignored and yields the zero ID.
func (h *Holder) AddListener(key string, fn Listener) ListenerID {
	if fn == nil {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := h.slotLocked(key)
	s.listeners = append(s.listeners, registration{id: h.nextID, fn: fn})
	return h.nextID
}

// RemoveListener unregisters the listener with the given id and reports
// whether one was removed.
func (h *Holder) RemoveListener(key string, id ListenerID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.slots[key]
	if !ok {
		return false
	}
	for i, r := range s.listeners {
		if r.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners registered for key.
func (h *Holder) ListenerCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if s, ok := h.slots[key]; ok {
		return len(s.listeners)
	}
	return 0
}

// Subscribe returns a channel receiving every change notification until ctx
// is cancelled or the Holder is closed.
func (h *Holder) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return h.broker.Subscribe(ctx)
}

// Close shuts down the change feed. Synchronous listeners keep working.
func (h *Holder) Close() {
	h.broker.Close()
}

// LoadConfig fetches the portal configuration, stores it under KeyConfig
// and returns it. Failures are returned as is and leave the store untouched.
func (h *Holder) LoadConfig(ctx context.Context) (*hub.PortalConfig, error) {
	if h.source == nil {
		return nil, ErrNoConfigSource
	}

	cfg, err := h.source.LoadConfig(ctx)
	if err != nil {
		log.ErrorErr(log.CatState, "loading portal config failed", err)
		return nil, fmt.Errorf("loading portal config: %w", err)
	}

	h.Set(KeyConfig, cfg)
	log.Debug(log.CatState, "portal config loaded", "hubApiUrl", cfg.HubAPIURL)
	return cfg, nil
}

// Config returns the stored portal configuration or nil.
func (h *Holder) Config() *hub.PortalConfig {
	cfg, _ := h.Get(KeyConfig, nil).(*hub.PortalConfig)
	return cfg
}

// User returns the signed-in user or nil.
func (h *Holder) User() *hub.User {
	u, _ := h.Get(KeyUser, nil).(*hub.User)
	return u
}

func (h *Holder) slotLocked(key string) *slot {
	s, ok := h.slots[key]
	if !ok {
		s = &slot{}
		h.slots[key] = s
	}
	return s
}

func (s *slot) snapshot() []registration {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]registration, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (h *Holder) notify(kind pubsub.EventType, key string, old, value any, listeners []registration) {
	if !changed(old, value) {
		return
	}
	log.Debug(log.CatState, "value changed", "key", key, "event", kind, "listeners", len(listeners))

	for _, r := range listeners {
		r.fn(key, old, value)
	}
	h.broker.Publish(kind, Change{Key: key, OldValue: old, NewValue: value})
}

// changed compares like a strict inequality on references: comparable
// values by ==, maps, slices and funcs by identity.
func changed(a, b any) (diff bool) {
	if a == nil || b == nil {
		return a != b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return true
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() != vb.Pointer()
	case reflect.Slice:
		return va.Pointer() != vb.Pointer() || va.Len() != vb.Len()
	}

	// Structs and arrays can hold non-comparable values behind interfaces.
	defer func() {
		if recover() != nil {
			diff = true
		}
	}()
	return a != b
}
