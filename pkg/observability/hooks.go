package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// Hooks feeds selector lifecycle events into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLeafLeave: func(ctx context.Context, e *domain.LeafEvent) {
			m.ObserveLeaf(e.LeafPath, e.Result, e.Err, e.Duration.Seconds())
		},
		OnExhausted: func(ctx context.Context, e *domain.SelectionEvent) {
			m.ObserveExhausted()
		},
	}
}

// DebugHooks logs every lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLeafEnter: func(ctx context.Context, e *domain.LeafEvent) {
			logger.Debug("Enter Leaf", "leaf", e.LeafPath, "target_id", e.TargetID, "platform", e.TargetPlatform)
		},
		OnLeafLeave: func(ctx context.Context, e *domain.LeafEvent) {
			if e.Err != nil {
				logger.Debug("Leave Leaf (Error)", "leaf", e.LeafPath, "err", e.Err)
			} else {
				logger.Debug("Leave Leaf", "leaf", e.LeafPath, "result", e.Result.String(), "duration", e.Duration)
			}
		},
		OnExhausted: func(ctx context.Context, e *domain.SelectionEvent) {
			logger.Warn("Nothing to say", "target_id", e.TargetID, "platform", e.TargetPlatform, "tried", e.Tried)
		},
	}
}

// CombineHooks returns hooks that call every non-nil callback of hs, in order.
func CombineHooks(hs ...domain.LifecycleHooks) domain.LifecycleHooks {
	var combined domain.LifecycleHooks
	for _, h := range hs {
		combined.OnLeafEnter = chainLeaf(combined.OnLeafEnter, h.OnLeafEnter)
		combined.OnLeafLeave = chainLeaf(combined.OnLeafLeave, h.OnLeafLeave)
		combined.OnExhausted = chainSelection(combined.OnExhausted, h.OnExhausted)
	}
	return combined
}

func chainLeaf(a, b func(context.Context, *domain.LeafEvent)) func(context.Context, *domain.LeafEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.LeafEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainSelection(a, b func(context.Context, *domain.SelectionEvent)) func(context.Context, *domain.SelectionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.SelectionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
