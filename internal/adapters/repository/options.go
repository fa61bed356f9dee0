package repository

// Default sizing for the in-memory store.
const defaultInitialCapacity = 1024

type storeConfig struct {
	initialCapacity int
}

// Option applies a configuration option to the MemStore.
type Option func(*storeConfig)

// WithInitialCapacity pre-sizes the entity maps.
func WithInitialCapacity(n int) Option {
	return func(c *storeConfig) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}
