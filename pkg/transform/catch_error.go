package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/stream"
)

// CatchError routes errors from the wrapped leaf to fallback as a manual trigger
// carrying an error input. The errored leaf is taken from the error annotation
// when present, else from the request. Cancellation errors are not routed.
//
// The wrapped leaf broadcasts the output of both leaves, so install it once per
// fallback (typically around a selector) to avoid duplicate delivery.
func CatchError(fallback leaf.Leaf) Transformer {
	return func(base leaf.Leaf) (leaf.Leaf, error) {
		if fallback == nil {
			return nil, fmt.Errorf("catch error: fallback leaf is required")
		}

		return leaf.Override(base, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				result, err := base.Next(ctx, req)
				if err == nil {
					return result, nil
				}
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return result, err
				}

				erroredLeaf, ok := leaf.NameOf(err)
				if !ok {
					erroredLeaf = req.CurrentLeafName
				}

				return fallback.Next(ctx, domain.Request{
					Type:            domain.TriggerManual,
					TargetID:        req.TargetID,
					TargetPlatform:  req.TargetPlatform,
					CurrentContext:  req.CurrentContext,
					CurrentLeafName: req.CurrentLeafName,
					Input:           domain.ErrorInput{Err: leaf.Cause(err), ErroredLeaf: erroredLeaf},
				})
			},
			Complete: func(ctx context.Context) error {
				return errors.Join(leaf.Complete(ctx, base), leaf.Complete(ctx, fallback))
			},
			Subscribe: func(ctx context.Context, observer stream.Observer[domain.Response]) (stream.Subscription, error) {
				return stream.Merge[domain.Response](base, fallback).Subscribe(ctx, observer)
			},
		}), nil
	}
}
