package di

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

// Container is the dependency injection container: it owns the registry of
// providers, the singleton cache, the single-flight coordinator, and the
// tracked resources that need tearing down. A zero Container is not usable;
// construct one with New.
//
// Container is safe for concurrent use from multiple goroutines.
type Container struct {
	mu            sync.RWMutex
	registrations map[tokenKey]*registration
	singletons    map[tokenKey]any

	typeIndex    map[reflect.Type]tokenKey
	typeIndexMu  sync.RWMutex
	typeIndexSet bool

	coordinator coordinator
	resources   *resourceList
	stats       *stats
	logger      containerLogger
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger installs a *slog.Logger for registration, resolution-failure,
// circular-dependency, and cleanup events. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		c.logger = containerLogger{slog: logger}
	}
}

// New creates an empty, ready-to-use Container.
//
// Example:
//
//	c := di.New()
//	di.Register(c, LoggerToken, func(ctx context.Context) (Logger, error) {
//	    return &ConsoleLogger{}, nil
//	}, di.AsSingleton())
func New(opts ...Option) *Container {
	c := &Container{
		registrations: make(map[tokenKey]*registration),
		singletons:    make(map[tokenKey]any),
		resources:     newResourceList(),
		stats:         &stats{},
		logger:        containerLogger{slog: slog.Default()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) putRegistration(reg *registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations[reg.key] = reg
	c.typeIndexSet = false
}

func (c *Container) getRegistration(key tokenKey) (*registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reg, ok := c.registrations[key]
	return reg, ok
}

func (c *Container) getSingleton(key tokenKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.singletons[key]
	return v, ok
}

func (c *Container) setSingleton(key tokenKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[key] = value
}

// byType looks up a registration by bare reflect.Type, for the type-based
// lookup path (GetType/AGetType) when no explicit Token was used. The
// index is memoized and rebuilt lazily whenever a registration is added.
func (c *Container) byType(typ reflect.Type) (tokenKey, bool) {
	c.typeIndexMu.RLock()
	if c.typeIndexSet {
		k, ok := c.typeIndex[typ]
		c.typeIndexMu.RUnlock()
		return k, ok
	}
	c.typeIndexMu.RUnlock()

	c.mu.RLock()
	index := make(map[reflect.Type]tokenKey, len(c.registrations))
	for key := range c.registrations {
		if _, exists := index[key.typ]; !exists {
			index[key.typ] = key
		}
	}
	c.mu.RUnlock()

	c.typeIndexMu.Lock()
	c.typeIndex = index
	c.typeIndexSet = true
	c.typeIndexMu.Unlock()

	k, ok := index[typ]
	return k, ok
}

// trackResource records instance for teardown at the point it is cached:
// the container-wide list for a Singleton, or the list of the active
// Request or Session frame matching a Request/Session value's scope.
// Callers only invoke
// this once a value has actually been cached — a Transient value, or a
// Request/Session value resolved with no active frame, is never reachable
// again and must never be tracked (see resolver.go's resolve).
func (c *Container) trackResource(ctx context.Context, instance any, reg *registration) {
	if reg.scope == Singleton {
		c.resources.track(instance, reg.typeName)
		return
	}
	frameFrom := requestFrameFrom
	if reg.scope == Session {
		frameFrom = sessionFrameFrom
	}
	if f, ok := frameFrom(ctx); ok {
		f.resources.track(instance, reg.typeName)
	}
}

// Clear removes every registration, cached singleton, and statistic from
// the container, without tearing down tracked resources — call Close or
// Shutdown first if that matters.
func (c *Container) Clear() {
	c.mu.Lock()
	c.registrations = make(map[tokenKey]*registration)
	c.singletons = make(map[tokenKey]any)
	c.mu.Unlock()

	c.typeIndexMu.Lock()
	c.typeIndexSet = false
	c.typeIndex = nil
	c.typeIndexMu.Unlock()

	c.stats.reset()
}

// Close tears down every tracked resource synchronously, in reverse
// construction order, and clears the container's caches. It fails fast
// with AsyncCleanupRequiredError if a tracked resource only implements
// AsyncCloser — use Shutdown for those.
func (c *Container) Close() error {
	if err := c.resources.closeSync(c.logger.asWarnFunc()); err != nil {
		return err
	}
	c.Clear()
	return nil
}

// Shutdown tears down every tracked resource concurrently via errgroup,
// calling Close(ctx) on AsyncClosers and Close() on SyncClosers, swallowing (and logging)
// individual cleanup errors, then clears the container's caches.
// Idempotent: a second call is a no-op because resources are drained on
// first close.
func (c *Container) Shutdown(ctx context.Context) {
	c.resources.closeAsync(ctx, c.logger.asWarnFunc())
	c.Clear()
}
