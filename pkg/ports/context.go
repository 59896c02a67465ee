package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// ContextChange is the result of an append: the context before and after the merge.
type ContextChange struct {
	OldContext domain.Context
	NewContext domain.Context
}

// ContextDAO reads and writes conversation context.
type ContextDAO interface {
	// GetContext returns the stored context, or an empty one.
	GetContext(ctx context.Context, target domain.Target) (domain.Context, error)

	// AppendContext shallow-merges additional over the current context and stores it.
	// When old is non-nil it is used as the current context and the read is skipped.
	AppendContext(ctx context.Context, target domain.Target, additional, old domain.Context) (ContextChange, error)

	// ResetContext forgets everything stored for the target.
	ResetContext(ctx context.Context, target domain.Target) error
}
