package di

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one token in a BatchGet/BatchAGet call. Build one with B,
// since a plain slice of Token[T] can't hold tokens of different T.
type BatchItem struct {
	key      tokenKey
	name     string
	getSync  func(ctx context.Context, c *Container) (any, error)
	getAsync func(ctx context.Context, c *Container) (any, error)
}

// B wraps token for use with BatchGet/BatchAGet.
func B[T any](token Token[T]) BatchItem {
	return BatchItem{
		key:      token.key(),
		name:     token.String(),
		getSync:  func(ctx context.Context, c *Container) (any, error) { return Get(ctx, c, token) },
		getAsync: func(ctx context.Context, c *Container) (any, error) { return AGet(ctx, c, token) },
	}
}

func scopeOrder(c *Container, key tokenKey) int {
	reg, ok := c.getRegistration(key)
	if !ok {
		return 99
	}
	switch reg.scope {
	case Singleton:
		return 0
	case Session:
		return 1
	case Request:
		return 2
	default:
		return 3
	}
}

// BatchGet resolves several heterogeneous tokens, ordering the work
// Singleton before Session before Request before Transient so a shared
// dependency several items pull in is constructed (and cached) before the
// items that depend on it, matching
// original_source/src/pyinj/container.py's batch_resolve. Results are
// keyed by each token's display name.
func BatchGet(ctx context.Context, c *Container, items ...BatchItem) (map[string]any, error) {
	sorted := append([]BatchItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return scopeOrder(c, sorted[i].key) < scopeOrder(c, sorted[j].key)
	})

	results := make(map[string]any, len(sorted))
	for _, item := range sorted {
		v, err := item.getSync(ctx, c)
		if err != nil {
			return nil, err
		}
		results[item.name] = v
	}
	return results, nil
}

// BatchAGet resolves several heterogeneous tokens concurrently via
// errgroup, matching
// original_source/src/pyinj/container.py's batch_resolve_async
// (asyncio.gather). It returns the first error encountered, cancelling the
// other in-flight resolutions.
func BatchAGet(ctx context.Context, c *Container, items ...BatchItem) (map[string]any, error) {
	var mu sync.Mutex
	results := make(map[string]any, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		g.Go(func() error {
			v, err := item.getAsync(gctx, c)
			if err != nil {
				return err
			}
			mu.Lock()
			results[item.name] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
