package di

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SyncCloser is implemented by resources that release themselves
// synchronously. It has the same method set as io.Closer. Since SyncCloser
// and AsyncCloser both name their method Close, a type implements at most
// one of the two.
type SyncCloser interface {
	Close() error
}

// AsyncCloser is implemented by resources whose teardown may block on I/O
// and should be driven through a context (network connections, database
// pools). Container.Shutdown closes these through Close(ctx);
// Container.Close refuses them with AsyncCleanupRequiredError.
type AsyncCloser interface {
	Close(ctx context.Context) error
}

// resourceList tracks constructed instances that need to be torn down,
// in construction order, so they can be closed in reverse.
type resourceList struct {
	mu    sync.Mutex
	items []any
	typ   []string
}

func newResourceList() *resourceList {
	return &resourceList{}
}

// track appends instance to the list if it implements SyncCloser or
// AsyncCloser, and reports whether it was tracked.
func (r *resourceList) track(instance any, typeName string) bool {
	_, isSync := instance.(SyncCloser)
	_, isAsync := instance.(AsyncCloser)
	if !isSync && !isAsync {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, instance)
	r.typ = append(r.typ, typeName)
	return true
}

// closeSync tears every tracked resource down synchronously, in reverse
// construction order, failing fast the first time it encounters a resource
// that only implements AsyncCloser. On that failure every resource at or
// before the failing index is left in the list (not yet visited in this
// reverse pass) so a subsequent Shutdown(ctx) call can still close them —
// only the resources this call actually closed are dropped.
func (r *resourceList) closeSync(logger logFunc) error {
	r.mu.Lock()
	items := r.items
	types := r.typ
	r.mu.Unlock()

	i := len(items) - 1
	for ; i >= 0; i-- {
		instance := items[i]
		if closer, ok := instance.(SyncCloser); ok {
			if err := closer.Close(); err != nil {
				logger("cleanup error", "type", types[i], "error", err)
			}
			continue
		}
		if _, ok := instance.(AsyncCloser); ok {
			break
		}
	}

	r.mu.Lock()
	if i < 0 {
		r.items = nil
		r.typ = nil
	} else {
		r.items = append([]any(nil), items[:i+1]...)
		r.typ = append([]string(nil), types[:i+1]...)
	}
	r.mu.Unlock()

	if i >= 0 {
		return AsyncCleanupRequiredError{Type: types[i]}
	}
	return nil
}

// closeAsync tears every tracked resource down concurrently via errgroup,
// calling Close(ctx) on AsyncClosers and Close() on SyncClosers, and swallowing
// individual cleanup errors after logging them — one slow or failing
// resource never blocks or fails the others down.
func (r *resourceList) closeAsync(ctx context.Context, logger logFunc) {
	r.mu.Lock()
	items := r.items
	types := r.typ
	r.items = nil
	r.typ = nil
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for i := len(items) - 1; i >= 0; i-- {
		instance := items[i]
		typeName := types[i]
		g.Go(func() error {
			var err error
			switch closer := instance.(type) {
			case AsyncCloser:
				err = closer.Close(gctx)
			case SyncCloser:
				err = closer.Close()
			}
			if err != nil {
				logger("cleanup error", "type", typeName, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (r *resourceList) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.typ...)
}

func (r *resourceList) String() string {
	return fmt.Sprintf("resourceList(%d tracked)", len(r.snapshot()))
}
