package di

import (
	"context"
	"reflect"
)

// Provider constructs a value of type T. Providers receive the resolving
// context so they can pull their own dependencies via Get/AGet — the
// Go-idiomatic substitute for the teacher's reflective multi-parameter
// constructor injection (see DESIGN.md, Open Question 1): a provider is a
// single, explicit function rather than a signature the container inspects
// and auto-wires.
type Provider[T any] func(ctx context.Context) (T, error)

type asyncResult struct {
	val any
	err error
}

// dispatchAsync runs construct on its own goroutine and races it against
// ctx.Done(), so a cancelled caller returns immediately while construct
// keeps running to completion (and any cache write it triggers still
// lands) rather than being torn down mid-flight.
func dispatchAsync(ctx context.Context, construct func() (any, error)) (any, error) {
	ch := make(chan asyncResult, 1)
	go func() {
		v, err := construct()
		ch <- asyncResult{v, err}
	}()
	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func typeNameOf[T any]() string {
	var zero T
	return reflect.TypeOf(&zero).Elem().String()
}

// Get resolves token synchronously, blocking the caller until the value is
// available. It implements the resolution algorithm in full: per-context
// override, container singleton cache, active scope-frame cache, circular
// dependency guard, provider dispatch (single-flight coordinated for
// Singleton tokens), lifecycle tracking, and scope/singleton caching.
func Get[T any](ctx context.Context, c *Container, token Token[T]) (T, error) {
	return resolve[T](ctx, c, token.key(), token.String(), false)
}

// GetType resolves a value by its Go type alone, without a pre-built
// Token. If no token was ever registered for T, a Transient token is
// fabricated on the fly, per the type-based lookup path.
func GetType[T any](ctx context.Context, c *Container) (T, error) {
	name := typeNameOf[T]()
	key := tokenKey{typ: reflect.TypeOf((*T)(nil)).Elem()}
	if _, ok := c.getRegistration(key); !ok {
		if k, ok := c.byType(key.typ); ok {
			key = k
		}
	}
	return resolve[T](ctx, c, key, name, false)
}

// AGet resolves token like Get, but stops waiting when ctx is cancelled,
// and it also invokes providers registered with RegisterAsync. Singleton
// tokens go through the single-flight coordinator, which shields the
// shared construction from a single caller's cancellation: AGet returns to
// that caller immediately, but the underlying provider call (and the cache
// write it produces) runs to completion. For other scopes the provider runs
// on its own goroutine, which likewise keeps running after the caller stops
// waiting.
func AGet[T any](ctx context.Context, c *Container, token Token[T]) (T, error) {
	return resolve[T](ctx, c, token.key(), token.String(), true)
}

// AGetType is the async counterpart of GetType.
func AGetType[T any](ctx context.Context, c *Container) (T, error) {
	name := typeNameOf[T]()
	key := tokenKey{typ: reflect.TypeOf((*T)(nil)).Elem()}
	if _, ok := c.getRegistration(key); !ok {
		if k, ok := c.byType(key.typ); ok {
			key = k
		}
	}
	return resolve[T](ctx, c, key, name, true)
}

func resolve[T any](ctx context.Context, c *Container, key tokenKey, display string, async bool) (T, error) {
	var zero T

	if ov := overridesFrom(ctx); ov != nil {
		if v, ok := ov[key]; ok {
			typed, ok := v.(T)
			if !ok {
				c.logger.warn("resolution failed", "token", display, "error", "override value has the wrong type")
				return zero, InvalidProviderError{Token: display, Message: "override value has the wrong type"}
			}
			return typed, nil
		}
	}

	if v, ok := c.getSingleton(key); ok {
		c.stats.recordHit()
		return v.(T), nil
	}

	for _, frameFrom := range [...]func(context.Context) (*frame, bool){requestFrameFrom, sessionFrameFrom} {
		if f, ok := frameFrom(ctx); ok {
			if v, ok := f.instances.get(key); ok {
				c.stats.recordHit()
				return v.(T), nil
			}
		}
	}
	c.stats.recordMiss()

	guardedCtx, err := pushGuard(ctx, key)
	if err != nil {
		c.logger.errorf("circular dependency", "token", display, "chain", err.(CircularDependencyError).Chain)
		return zero, err
	}

	reg, ok := c.getRegistration(key)
	if !ok {
		c.logger.warn("resolution failed", "token", display, "error", "not registered")
		return zero, NotRegisteredError{Token: display}
	}
	if reg.isAsync && !async {
		c.logger.warn("resolution failed", "token", display, "error", "async provider used from Get")
		return zero, AsyncProviderInSyncContextError{Token: display}
	}

	provider, ok := reg.provider.(Provider[T])
	if !ok {
		c.logger.warn("resolution failed", "token", display, "error", "provider type mismatch")
		return zero, InvalidProviderError{Token: display, Message: "registered provider does not match the requested type"}
	}

	// build invokes the provider and wraps its error, without tracking the
	// resulting instance for teardown. Tracking is added by the scope
	// branches below, and only at the point an instance is actually
	// cached — a resource record must never outlive the one cache (or
	// absence of one) that would ever reach it again (§3/§4.4 step 9).
	build := func() (any, error) {
		v, err := provider(guardedCtx)
		if err != nil {
			c.logger.warn("resolution failed", "token", display, "error", err)
			return nil, ResolutionError{Token: display, Cause: err}
		}
		return v, nil
	}

	switch reg.scope {
	case Singleton:
		construct := func() (any, error) {
			if v, ok := c.getSingleton(key); ok {
				return v, nil
			}
			v, err := build()
			if err != nil {
				return nil, err
			}
			c.setSingleton(key, v)
			c.trackResource(ctx, v, reg)
			return v, nil
		}
		flightKey := key.typ.String() + "|" + key.String()
		var v any
		if async {
			v, err = c.coordinator.ado(ctx, flightKey, construct)
		} else {
			v, err = c.coordinator.do(flightKey, construct)
		}
		if err != nil {
			return zero, err
		}
		c.setSingleton(key, v)
		c.logger.log("resolved singleton", "token", display)
		return v.(T), nil

	case Request, Session:
		frameFrom := requestFrameFrom
		if reg.scope == Session {
			frameFrom = sessionFrameFrom
		}
		f, ok := frameFrom(ctx)
		if !ok {
			// spec.md §4.4 step 9: no active frame for a Request/Session
			// token returns a freshly built, uncached value rather than
			// failing — it is never reachable again, so it is never
			// tracked for teardown either.
			var v any
			var err error
			if async {
				v, err = dispatchAsync(ctx, build)
			} else {
				v, err = build()
			}
			if err != nil {
				return zero, err
			}
			return v.(T), nil
		}
		construct := func() (any, error) {
			v, err := build()
			if err != nil {
				return nil, err
			}
			c.trackResource(ctx, v, reg)
			return v, nil
		}
		runner := construct
		if async {
			runner = func() (any, error) { return dispatchAsync(ctx, construct) }
		}
		v, err := f.instances.getOrInit(key, runner)
		if err != nil {
			return zero, err
		}
		return v.(T), nil

	default: // Transient: constructed fresh every call, never cached, never tracked.
		var v any
		var err error
		if async {
			v, err = dispatchAsync(ctx, build)
		} else {
			v, err = build()
		}
		if err != nil {
			return zero, err
		}
		return v.(T), nil
	}
}
