package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
)

// Selector tries the leaves of a branch tree in order until one handles a request.
// It is itself a leaf, so selectors can be nested or transformed.
type Selector struct {
	leaves []Enumeration
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	mu         sync.Mutex
	subscribed bool
}

// Option configures the Selector.
type Option func(*Selector)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Selector) {
		s.hooks = hooks
	}
}

// New enumerates b once and returns a selector over the result.
func New(b *branch.Branch, opts ...Option) *Selector {
	s := &Selector{
		leaves: EnumerateLeaves(b),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Leaves returns the enumerated candidates in the order they are tried.
func (s *Selector) Leaves() []Enumeration {
	return append([]Enumeration{}, s.leaves...)
}

// Next invokes candidates sequentially with CurrentLeafName set, stopping at the
// first BREAK. It fails with domain.ErrNothingToSay when every candidate falls through.
func (s *Selector) Next(ctx context.Context, req domain.Request) (domain.NextResult, error) {
	for _, e := range s.leaves {
		if err := ctx.Err(); err != nil {
			return domain.NextInvalid, err
		}

		candidate := req
		candidate.CurrentLeafName = e.CurrentLeafName

		event := &domain.LeafEvent{
			EventBase:      domain.EventBase{Timestamp: time.Now(), Type: domain.EventLeafEnter},
			LeafName:       e.CurrentLeafName,
			LeafPath:       e.FullName(),
			TargetID:       req.TargetID,
			TargetPlatform: req.TargetPlatform,
		}
		if s.hooks.OnLeafEnter != nil {
			s.hooks.OnLeafEnter(ctx, event)
		}

		start := time.Now()
		result, err := e.CurrentLeaf.Next(ctx, candidate)

		if s.hooks.OnLeafLeave != nil {
			leave := *event
			leave.Type = domain.EventLeafLeave
			leave.Timestamp = time.Now()
			leave.Result = result
			leave.Err = err
			leave.Duration = time.Since(start)
			s.hooks.OnLeafLeave(ctx, &leave)
		}

		if err != nil {
			s.logger.Debug("Leaf failed", "leaf", event.LeafPath, "target_id", req.TargetID, "err", err)
			return result, err
		}

		s.logger.Debug("Leaf invoked", "leaf", event.LeafPath, "result", result.String(), "target_id", req.TargetID)
		if result == domain.NextBreak {
			return domain.NextBreak, nil
		}
	}

	if s.hooks.OnExhausted != nil {
		s.hooks.OnExhausted(ctx, &domain.SelectionEvent{
			EventBase:      domain.EventBase{Timestamp: time.Now(), Type: domain.EventExhausted},
			TargetID:       req.TargetID,
			TargetPlatform: req.TargetPlatform,
			Tried:          len(s.leaves),
		})
	}
	return domain.NextInvalid, fmt.Errorf("%w (tried %d leaves for %s)", domain.ErrNothingToSay, len(s.leaves), req.Target().Key())
}

// Complete completes every leaf that supports it, in enumeration order.
// All leaves are attempted; errors are joined in the same order.
func (s *Selector) Complete(ctx context.Context) error {
	var errs []error
	for _, e := range s.leaves {
		if err := stream.Complete(ctx, e.CurrentLeaf); err != nil {
			errs = append(errs, fmt.Errorf("complete %s: %w", e.FullName(), err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe merges the outputs of every leaf and attaches observer to them.
// It may be called only once; later calls fail with domain.ErrAlreadySubscribed.
func (s *Selector) Subscribe(ctx context.Context, observer stream.Observer[domain.Response]) (stream.Subscription, error) {
	s.mu.Lock()
	if s.subscribed {
		s.mu.Unlock()
		return nil, domain.ErrAlreadySubscribed
	}
	s.subscribed = true
	s.mu.Unlock()

	sources := make([]stream.Observable[domain.Response], 0, len(s.leaves))
	for _, e := range s.leaves {
		sources = append(sources, e.CurrentLeaf)
	}
	return stream.Merge(sources...).Subscribe(ctx, observer)
}
