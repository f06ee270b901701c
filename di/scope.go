package di

import (
	"context"

	"github.com/google/uuid"
)

// newFrameID returns a time-ordered UUIDv7 string for a new scope frame, so
// frame ids sort and index well in logs and any storage keyed on them.
// NewV7 only fails if the process runs out of entropy; falling back to a
// random UUIDv4 keeps frame creation from ever failing outright.
func newFrameID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// RequestScope runs fn within a fresh Request-scoped frame: Request-scoped
// tokens resolved anywhere inside fn (directly or through nested
// providers) share one instance, and the closeable Request-scoped
// instances cached in the frame are torn down synchronously when fn
// returns, in reverse construction order. Singleton resources resolved
// inside fn are tracked by the container, and Session resources by the
// enclosing SessionScope. Teardown stops at the first instance that only
// implements AsyncCloser: it and the instances constructed before it stay
// open, the failure is logged, and RequestScope returns fn's error.
//
// Nesting: an inner RequestScope shadows an outer one for Request
// resolution, but Singleton resolution still sees the container-wide
// cache regardless of nesting.
func (c *Container) RequestScope(ctx context.Context, fn func(ctx context.Context) error) error {
	f := newFrame(newFrameID())
	scoped := withRequestFrame(ctx, f)

	err := fn(scoped)
	if closeErr := f.resources.closeSync(c.logger.asWarnFunc()); closeErr != nil {
		c.logger.warn("request scope teardown incomplete", "scope", f.id, "error", closeErr)
	}
	return err
}

// SessionScope is RequestScope's longer-lived counterpart: Session-scoped
// tokens resolved inside fn (including inside any RequestScope nested
// within it) share one instance for the duration of the call.
func (c *Container) SessionScope(ctx context.Context, fn func(ctx context.Context) error) error {
	f := newFrame(newFrameID())
	scoped := withSessionFrame(ctx, f)

	err := fn(scoped)
	if closeErr := f.resources.closeSync(c.logger.asWarnFunc()); closeErr != nil {
		c.logger.warn("session scope teardown incomplete", "scope", f.id, "error", closeErr)
	}
	return err
}

// overrideEntry pairs a token's identity with a substitute value. Build
// one with With; UseOverrides takes a slice of these rather than a map
// keyed directly by Token[T], since distinct T instantiations can't share
// one map type.
type overrideEntry struct {
	key   tokenKey
	value any
}

// With pairs token with a substitute value for UseOverrides.
//
// Example:
//
//	di.UseOverrides(ctx, []di.Override{di.With(LoggerToken, fakeLogger)}, func(ctx context.Context) error {
//	    svc, err := di.Get(ctx, c, ServiceToken)
//	    ...
//	})
func With[T any](token Token[T], value T) overrideEntry {
	return overrideEntry{key: token.key(), value: value}
}

// Override is a single token/value substitution built with With, for use
// with UseOverrides.
type Override = overrideEntry

// UseOverrides runs fn with the given token substitutions merged into the
// current flow's override view, restoring the outer view once fn returns.
// Overrides installed this way are visible only to fn and whatever it
// calls, and only for the ctx it's handed — concurrent goroutines sharing
// the parent context are unaffected, which is what makes it safe in
// table-driven and parallel tests.
func UseOverrides(ctx context.Context, overrides []Override, fn func(ctx context.Context) error) error {
	add := make(map[tokenKey]any, len(overrides))
	for _, o := range overrides {
		add[o.key] = o.value
	}
	return fn(withMergedOverrides(ctx, add))
}
