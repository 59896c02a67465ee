package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// ContextStore defines raw persistence for conversation contexts.
type ContextStore interface {
	// Save persists the context under key, replacing what was there.
	Save(ctx context.Context, key string, value domain.Context) error

	// Load retrieves the context for key.
	// Returns domain.ErrContextNotFound if nothing is stored.
	Load(ctx context.Context, key string) (domain.Context, error)

	// Delete removes the context for key.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently stored.
	List(ctx context.Context) ([]string, error)
}
