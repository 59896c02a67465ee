package stream

import (
	"context"
	"sync"
)

// Subscription is a handle that stops future deliveries to an observer.
// Unsubscribe is idempotent: only the first call has an effect.
type Subscription interface {
	Unsubscribe(ctx context.Context) error
}

type subscription struct {
	once  sync.Once
	unsub func(context.Context) error
}

// NewSubscription wraps an unsubscribe callback so it fires at most once.
func NewSubscription(unsub func(ctx context.Context) error) Subscription {
	return &subscription{unsub: unsub}
}

func (s *subscription) Unsubscribe(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		if s.unsub != nil {
			err = s.unsub(ctx)
		}
	})
	return err
}

// Composite returns one subscription that unsubscribes every child in order.
// All children are attempted; the first error encountered is returned.
func Composite(subs ...Subscription) Subscription {
	return NewSubscription(func(ctx context.Context) error {
		var first error
		for _, sub := range subs {
			if sub == nil {
				continue
			}
			if err := sub.Unsubscribe(ctx); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
