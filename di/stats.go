package di

import "sync/atomic"

// stats accumulates cache-hit/miss counters across Get/AGet calls,
// mirroring the resolution statistics the Python original
// (original_source/src/pyinj/container.py) exposes via cache_hit_rate —
// a feature spec.md's distillation dropped but nothing excludes.
type stats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (s *stats) recordHit()  { s.hits.Add(1) }
func (s *stats) recordMiss() { s.misses.Add(1) }

func (s *stats) reset() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Snapshot is a point-in-time read of a Container's resolution counters.
type Snapshot struct {
	Hits   int64
	Misses int64
}

// HitRate returns Hits / (Hits + Misses), or 0 if nothing has been
// resolved yet.
func (s Snapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the container's cumulative resolution
// counters: how often Get/AGet found a cached value for a token (singleton
// cache or active scope-frame cache) versus how often it found none and
// went on to the provider lookup. A value served from a UseOverrides
// override counts as neither.
func (c *Container) Stats() Snapshot {
	return Snapshot{
		Hits:   c.stats.hits.Load(),
		Misses: c.stats.misses.Load(),
	}
}
