// Package collections provides small generic data structures reused from
// the harness's hot path: a scratch-buffer pool and a compact bitset.
package collections

import "sync"

// SlicePool is a sync.Pool-backed pool of slices of T. It exists so a
// per-generation sample buffer can be reused instead of allocated fresh
// every time hitAll draws a new batch of samples.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates a slice pool whose slices start at the given
// capacity (256 if initialCap is non-positive).
func NewSlicePool[T any](initialCap int) *SlicePool[T] {
	if initialCap <= 0 {
		initialCap = 256
	}
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]T, 0, initialCap)
				return &s
			},
		},
	}
}

// Get takes a slice from the pool, allocating a new one if the pool is
// currently empty.
func (p *SlicePool[T]) Get() *[]T {
	return p.pool.Get().(*[]T)
}

// Put returns a slice to the pool, truncating it to length zero first so
// the next Get starts empty without losing the backing array.
func (p *SlicePool[T]) Put(s *[]T) {
	*s = (*s)[:0]
	p.pool.Put(s)
}
