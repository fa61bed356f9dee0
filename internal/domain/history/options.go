package history

// Default window size for retained rating changes.
const defaultCapacity = 30

// Option applies a configuration option to the Ring.
type Option func(*Ring)

// WithCapacity sets the window capacity.
func WithCapacity(n int) Option {
	return func(r *Ring) {
		if n > 0 {
			r.buf = make([]float64, n)
		}
	}
}
