package di

import "sync"

// syncMap is a small mutex-guarded map[tokenKey]any used for per-frame
// instance caches, where the generic sync.Map's any-keyed API would cost
// more in type assertions than a plain mutex saves in contention — frames
// are scoped to a single request/session and see modest concurrency.
type syncMap struct {
	mu      sync.Mutex
	m       map[tokenKey]any
	pending map[tokenKey]*pendingInit
}

// pendingInit lets concurrent callers racing on the same key during
// getOrInit wait for the one in-flight call instead of invoking init
// more than once.
type pendingInit struct {
	done  chan struct{}
	value any
	err   error
}

func (s *syncMap) get(key tokenKey) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *syncMap) set(key tokenKey, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[tokenKey]any)
	}
	s.m[key] = value
}

// getOrInit returns the cached value for key, or runs init to produce and
// cache one. Unlike a naive lock-held-through-init implementation, init
// runs with s.mu released: a provider that resolves another Request- or
// Session-scoped token under the same frame — the "provider pulls its own
// dependencies via Get" pattern the resolver is built around — re-enters
// getOrInit on this same frame for a different key, and must not block on
// a lock this goroutine itself is holding. Concurrent callers racing on
// the *same* key wait on a pending marker instead of double-invoking init.
func (s *syncMap) getOrInit(key tokenKey, init func() (any, error)) (any, error) {
	s.mu.Lock()
	if s.m == nil {
		s.m = make(map[tokenKey]any)
	}
	if v, ok := s.m[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	if p, inflight := s.pending[key]; inflight {
		s.mu.Unlock()
		<-p.done
		return p.value, p.err
	}
	p := &pendingInit{done: make(chan struct{})}
	if s.pending == nil {
		s.pending = make(map[tokenKey]*pendingInit)
	}
	s.pending[key] = p
	s.mu.Unlock()

	v, err := init()

	s.mu.Lock()
	delete(s.pending, key)
	if err == nil {
		s.m[key] = v
	}
	s.mu.Unlock()

	p.value, p.err = v, err
	close(p.done)
	return v, err
}
