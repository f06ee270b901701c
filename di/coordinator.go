package di

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// coordinator serializes concurrent construction of the same Singleton
// token so that a burst of simultaneous first-time resolutions invokes the
// provider exactly once and shares its result, instead of racing N
// redundant constructions — the request-coalescing pattern
// golang.org/x/sync/singleflight exists for.
type coordinator struct {
	group singleflight.Group
}

// do invokes fn at most once per concurrently-overlapping key, blocking
// the caller until the in-flight (or newly started) call completes.
func (c *coordinator) do(key string, fn func() (any, error)) (any, error) {
	v, err, _ := c.group.Do(key, fn)
	return v, err
}

// ado invokes fn at most once per concurrently-overlapping key, like do,
// but the wait can be abandoned: it waits on the shared result channel or
// ctx.Done(), whichever is ready first, so a cancelled waiter returns
// immediately while the shared call keeps running to completion — anything
// fn stores still lands, and everyone else still waiting gets the result.
func (c *coordinator) ado(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	ch := c.group.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
