package stream

import (
	"context"
	"fmt"
)

type merged[T any] struct {
	sources []Observable[T]
}

// Merge returns an observable that subscribes the same observer to every
// source, in order, and hands back a composite subscription.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return &merged[T]{sources: sources}
}

func (m *merged[T]) Subscribe(ctx context.Context, observer Observer[T]) (Subscription, error) {
	subs := make([]Subscription, 0, len(m.sources))
	for i, source := range m.sources {
		sub, err := source.Subscribe(ctx, observer)
		if err != nil {
			// Undo the subscriptions already made.
			_ = Composite(subs...).Unsubscribe(ctx)
			return nil, fmt.Errorf("failed to subscribe to source %d: %w", i, err)
		}
		subs = append(subs, sub)
	}
	return Composite(subs...), nil
}
