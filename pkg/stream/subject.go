package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Subject is a multi-observer broadcast point. Safe for concurrent use.
//
// Next delivers to observers one at a time, in registration order, and never
// invokes two observers concurrently for a single call. After Complete, Next
// and Complete are no-ops.
type Subject[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	observers *orderedmap.OrderedMap[uint64, Observer[T]]
	completed bool
}

// NewSubject creates an empty subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{
		observers: orderedmap.New[uint64, Observer[T]](),
	}
}

// Subscribe registers observer under a fresh id. Unsubscribing removes it and
// completes it if it implements Completer. Subscribing to a completed subject
// completes observer right away and returns a subscription that does nothing.
func (s *Subject[T]) Subscribe(ctx context.Context, observer Observer[T]) (Subscription, error) {
	if observer == nil {
		return nil, fmt.Errorf("observer is required")
	}

	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return NewSubscription(nil), Complete(ctx, observer)
	}
	id := s.nextID
	s.nextID++
	s.observers.Set(id, observer)
	s.mu.Unlock()

	return NewSubscription(func(ctx context.Context) error {
		s.mu.Lock()
		_, present := s.observers.Delete(id)
		s.mu.Unlock()
		if !present {
			return nil
		}
		return Complete(ctx, observer)
	}), nil
}

// Next delivers value to every registered observer. It returns NextInvalid
// without calling anyone once the subject is completed, and NextBreak after
// a successful delivery. The first observer error stops delivery.
func (s *Subject[T]) Next(ctx context.Context, value T) (domain.NextResult, error) {
	observers, ok := s.snapshot(false)
	if !ok {
		return domain.NextInvalid, nil
	}

	for _, observer := range observers {
		if _, err := observer.Next(ctx, value); err != nil {
			return domain.NextInvalid, err
		}
	}
	return domain.NextBreak, nil
}

// Complete completes every registered observer once. Later calls do nothing.
func (s *Subject[T]) Complete(ctx context.Context) error {
	observers, ok := s.snapshot(true)
	if !ok {
		return nil
	}

	var errs []error
	for _, observer := range observers {
		if err := Complete(ctx, observer); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Completed reports whether Complete has been called.
func (s *Subject[T]) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// snapshot copies the registry in registration order. When complete is set it
// also marks the subject completed. ok is false if it already was.
func (s *Subject[T]) snapshot(complete bool) ([]Observer[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return nil, false
	}
	if complete {
		s.completed = true
	}

	observers := make([]Observer[T], 0, s.observers.Len())
	for pair := s.observers.Oldest(); pair != nil; pair = pair.Next() {
		observers = append(observers, pair.Value)
	}
	return observers, true
}
