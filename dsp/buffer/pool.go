package buffer

import "sync"

// Pool provides sync.Pool-based reuse of float32 scratch slices to reduce
// GC pressure in block processing loops.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return new([]float32)
			},
		},
	}
}

// Get returns a zeroed slice of the requested length.
// Callers must return it via Put when done.
func (p *Pool) Get(length int) []float32 {
	sp := p.pool.Get().(*[]float32)
	s := *sp
	length = max(length, 0)
	if cap(s) < length {
		return make([]float32, length)
	}

	s = s[:length]
	clear(s)
	return s
}

// Put returns a slice to the pool for reuse.
// The caller must not use the slice after calling Put.
func (p *Pool) Put(samples []float32) {
	if samples == nil {
		return
	}
	samples = samples[:0]
	p.pool.Put(&samples)
}
