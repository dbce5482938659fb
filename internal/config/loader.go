package config

import "context"

// Loader is the interface for a format-specific flow loader.
type Loader interface {
	// Load reads flow definitions from the given paths and merges them into
	// one Flow, preserving declaration order.
	Load(ctx context.Context, paths ...string) (*Flow, error)
}
