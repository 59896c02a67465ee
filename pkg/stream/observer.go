package stream

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Observer receives values pushed by an Observable.
type Observer[T any] interface {
	Next(ctx context.Context, value T) (domain.NextResult, error)
}

// Completer is implemented by observers and leaves that hold resources
// or need to know when a stream ends.
type Completer interface {
	Complete(ctx context.Context) error
}

// Observable is anything an Observer can subscribe to.
type Observable[T any] interface {
	Subscribe(ctx context.Context, observer Observer[T]) (Subscription, error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(ctx context.Context, value T) (domain.NextResult, error)

func (f ObserverFunc[T]) Next(ctx context.Context, value T) (domain.NextResult, error) {
	return f(ctx, value)
}

// Complete calls Complete on v when it has that capability.
func Complete(ctx context.Context, v any) error {
	if c, ok := v.(Completer); ok {
		return c.Complete(ctx)
	}
	return nil
}
