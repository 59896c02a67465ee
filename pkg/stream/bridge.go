package stream

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Source is something that accepts inputs and broadcasts outputs, such as a leaf.
type Source[In, Out any] interface {
	Observable[Out]
	Next(ctx context.Context, input In) (domain.NextResult, error)
}

// Bridge turns a Source into a blocking call: it subscribes, feeds the input,
// waits for the first emission and unsubscribes. Later emissions are ignored,
// so it is meant for tests and one-shot usage rather than long-lived streams.
func Bridge[In, Out any](source Source[In, Out]) func(ctx context.Context, input In) (Out, error) {
	return func(ctx context.Context, input In) (Out, error) {
		var zero Out
		first := make(chan Out, 1)

		sub, err := source.Subscribe(ctx, ObserverFunc[Out](func(_ context.Context, value Out) (domain.NextResult, error) {
			select {
			case first <- value:
			default:
			}
			return domain.NextBreak, nil
		}))
		if err != nil {
			return zero, fmt.Errorf("failed to subscribe: %w", err)
		}
		defer sub.Unsubscribe(ctx)

		if _, err := source.Next(ctx, input); err != nil {
			return zero, err
		}

		select {
		case value := <-first:
			return value, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
