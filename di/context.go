package di

import "context"

// ctxKey namespaces the values the resolver carries on context.Context.
// Unexported so only this package can populate or read them, matching the
// closed-key convention used by deep-rent-nexus/di for its visiting-set and
// scoped-cache context values.
type ctxKey int

const (
	ctxKeyOverrides ctxKey = iota
	ctxKeyGuard
	ctxKeyRequestFrame
	ctxKeySessionFrame
)

// overrides is a context-local view of token substitutions installed by
// UseOverrides. It is copy-on-write: installing a new override derives a
// child map so the parent context's view is never mutated.
type overrides map[tokenKey]any

func overridesFrom(ctx context.Context) overrides {
	if v, ok := ctx.Value(ctxKeyOverrides).(overrides); ok {
		return v
	}
	return nil
}

func withMergedOverrides(ctx context.Context, add map[tokenKey]any) context.Context {
	parent := overridesFrom(ctx)
	merged := make(overrides, len(parent)+len(add))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range add {
		merged[k] = v
	}
	return context.WithValue(ctx, ctxKeyOverrides, merged)
}

// guard is the resolution-in-progress set used to detect circular
// dependencies. It keeps both an ordered slice (for the reported chain) and
// a set (for O(1) membership), per the container's step-4 guard contract.
type guard struct {
	chain []tokenKey
	set   map[tokenKey]struct{}
}

func guardFrom(ctx context.Context) guard {
	if g, ok := ctx.Value(ctxKeyGuard).(guard); ok {
		return g
	}
	return guard{}
}

// pushGuard returns a derived context with key added to the resolution
// guard, or a CircularDependencyError if key is already present — meaning
// it is already being resolved further up the same call chain.
func pushGuard(ctx context.Context, key tokenKey) (context.Context, error) {
	g := guardFrom(ctx)
	if _, visiting := g.set[key]; visiting {
		chain := make([]string, 0, len(g.chain)+1)
		for _, k := range g.chain {
			chain = append(chain, k.String())
		}
		chain = append(chain, key.String())
		return ctx, CircularDependencyError{Chain: chain}
	}

	next := guard{
		chain: append(append([]tokenKey(nil), g.chain...), key),
		set:   make(map[tokenKey]struct{}, len(g.set)+1),
	}
	for k := range g.set {
		next.set[k] = struct{}{}
	}
	next.set[key] = struct{}{}

	return context.WithValue(ctx, ctxKeyGuard, next), nil
}

// frame is the per-scope instance cache backing RequestScope and
// SessionScope. Unlike overrides and the guard, a frame is shared by
// reference across the dynamic extent of the scope call: nested
// resolutions must observe each other's cached instances and contribute to
// the same teardown list.
type frame struct {
	id        string
	instances syncMap
	resources *resourceList
}

func newFrame(id string) *frame {
	return &frame{
		id:        id,
		resources: newResourceList(),
	}
}

func withRequestFrame(ctx context.Context, f *frame) context.Context {
	return context.WithValue(ctx, ctxKeyRequestFrame, f)
}

func withSessionFrame(ctx context.Context, f *frame) context.Context {
	return context.WithValue(ctx, ctxKeySessionFrame, f)
}

func requestFrameFrom(ctx context.Context) (*frame, bool) {
	f, ok := ctx.Value(ctxKeyRequestFrame).(*frame)
	return f, ok
}

func sessionFrameFrom(ctx context.Context) (*frame, bool) {
	f, ok := ctx.Value(ctxKeySessionFrame).(*frame)
	return f, ok
}

// activeFrame returns the innermost scope frame in effect, preferring a
// Request frame over an enclosing Session frame, along with the resource
// list resources created under it should be torn down with.
func activeFrame(ctx context.Context) (*frame, bool) {
	if f, ok := requestFrameFrom(ctx); ok {
		return f, true
	}
	if f, ok := sessionFrameFrom(ctx); ok {
		return f, true
	}
	return nil, false
}
