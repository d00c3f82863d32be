package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/mod/semver"

	"axm-storefront/internal/model"
	"axm-storefront/internal/storage"
)

// StorageKey is the store key of the default cart.
const StorageKey = "axm-cart"

// SnapshotVersion is written with every persisted cart. Snapshots with a
// different major version are discarded on load.
const SnapshotVersion = "v1.0.0"

// snapshot is the persisted form of a cart. Total is informational; it is
// recomputed from the items on load.
type snapshot struct {
	Version string      `json:"version"`
	Items   []LineItem  `json:"items"`
	Total   model.Money `json:"total"`
}

// Cart is one shopper's cart. Dispatches are serialized, and the full
// item list is written to the store after every mutation.
type Cart struct {
	key     string
	store   storage.Store
	pricing Pricing
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

// View is a cart state with its derived totals.
type View struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// Load restores the cart stored under key. Missing, corrupt or
// incompatible data yields an empty cart; it is logged, never returned.
func Load(ctx context.Context, store storage.Store, key string, pricing Pricing, logger *slog.Logger) *Cart {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cart{
		key:     key,
		store:   store,
		pricing: pricing,
		logger:  logger,
		state:   State{Items: []LineItem{}},
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("failed to read saved cart", "key", key, "error", err)
		}
		return c
	}

	state, err := restore(data)
	if err != nil {
		logger.Warn("failed to load saved cart", "key", key, "error", err)
		return c
	}
	c.state = state
	return c
}

// restore decodes a snapshot and replays its lines through the same merge
// used by AddItem, so duplicate lines collapse into one.
func restore(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if !semver.IsValid(snap.Version) {
		return State{}, fmt.Errorf("invalid snapshot version %q", snap.Version)
	}
	if semver.Major(snap.Version) != semver.Major(SnapshotVersion) {
		return State{}, fmt.Errorf("incompatible snapshot version %s", snap.Version)
	}

	state := State{Items: []LineItem{}}
	for _, line := range snap.Items {
		if line.Quantity < 1 {
			continue
		}
		if line.ProductID != "" {
			line.ID = LineID(line.ProductID, Variant{Size: line.Size, Color: line.Color})
		}
		if strings.TrimSpace(line.ID) == "" {
			continue
		}
		state = mergeLine(state, line)
	}
	return state, nil
}

// Key returns the store key of the cart.
func (c *Cart) Key() string { return c.key }

// State returns a copy of the current state.
func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the current state with totals.
func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Cart) view() View {
	s := c.state.clone()
	return View{Items: s.Items, Totals: s.Totals(c.pricing)}
}

// Dispatch applies a and persists the result. The new state is kept even
// when persisting fails; the error is returned for the caller to report.
func (c *Cart) Dispatch(ctx context.Context, a Action) (View, error) {
	return c.DispatchAll(ctx, a)
}

// DispatchAll applies actions in order as one update: other callers never
// observe an intermediate state, and the result is persisted once.
func (c *Cart) DispatchAll(ctx context.Context, actions ...Action) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
	err := c.persist(ctx)
	if err != nil {
		c.logger.Error("failed to persist cart", "key", c.key, "error", err)
	}
	return c.view(), err
}

func (c *Cart) persist(ctx context.Context) error {
	snap := snapshot{
		Version: SnapshotVersion,
		Items:   c.state.Items,
		Total:   c.state.Totals(c.pricing).Subtotal,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// DefaultMaxCarts bounds the carts a Registry keeps loaded.
const DefaultMaxCarts = 10000

// Registry hands out one Cart per session, loading each lazily. A bounded
// number of carts stay loaded; the least recently used is dropped first and is
// reloaded from the store on its next use. A cart dropped while a request
// still holds it may lose that request's write to a concurrent reload.
type Registry struct {
	store   storage.Store
	pricing Pricing
	logger  *slog.Logger

	mu    sync.Mutex
	carts *lru.Cache[string, *Cart]
}

// NewRegistry creates a registry over store holding up to DefaultMaxCarts
// carts.
func NewRegistry(store storage.Store, pricing Pricing, logger *slog.Logger) *Registry {
	return NewRegistrySize(store, pricing, logger, DefaultMaxCarts)
}

// NewRegistrySize creates a registry over store holding up to size carts.
// A size below 1 means DefaultMaxCarts.
func NewRegistrySize(store storage.Store, pricing Pricing, logger *slog.Logger, size int) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if size < 1 {
		size = DefaultMaxCarts
	}
	carts, err := lru.New[string, *Cart](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Registry{
		store:   store,
		pricing: pricing,
		logger:  logger,
		carts:   carts,
	}
}

// SessionKey returns the store key for a session; the empty session is
// the default cart.
func SessionKey(session string) string {
	if session == "" {
		return StorageKey
	}
	return StorageKey + ":" + session
}

// Cart returns the cart for session, loading it from the store on first use.
func (r *Registry) Cart(ctx context.Context, session string) *Cart {
	key := SessionKey(session)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts.Get(key); ok {
		return c
	}
	c := Load(ctx, r.store, key, r.pricing, r.logger)
	if r.carts.Add(key, c) {
		r.logger.Debug("evicted least recently used cart", "loaded", r.carts.Len())
	}
	return c
}

// Len reports how many carts are loaded.
func (r *Registry) Len() int { return r.carts.Len() }

// Pricing returns the rules carts are priced with.
func (r *Registry) Pricing() Pricing { return r.pricing }
