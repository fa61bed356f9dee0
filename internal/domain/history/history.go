// Package history provides a fixed-capacity ring buffer of recent rating
// changes. Entities accumulate one entry per match; once the window is full
// the oldest entry is evicted so per-entity memory stays bounded across long
// match histories.
package history

// Ring is a bounded FIFO of float64 samples.
type Ring struct {
	buf   []float64
	head  int // index of the oldest element
	count int
}

// NewRing creates a ring buffer with configuration options.
func NewRing(opts ...Option) *Ring {
	r := &Ring{
		buf: make([]float64, defaultCapacity),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Push appends a sample, evicting the oldest when the window is full.
func (r *Ring) Push(v float64) {
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// Values returns the retained samples ordered oldest to newest.
func (r *Ring) Values() []float64 {
	out := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of retained samples.
func (r *Ring) Len() int { return r.count }

// Cap returns the window capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Clone returns an independent copy of the ring.
func (r *Ring) Clone() *Ring {
	c := &Ring{
		buf:   make([]float64, len(r.buf)),
		head:  r.head,
		count: r.count,
	}
	copy(c.buf, r.buf)
	return c
}
