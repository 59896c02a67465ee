package transform

import (
	"context"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
)

// MapRequest rewrites every request before the wrapped leaf sees it.
func MapRequest(fn func(ctx context.Context, req domain.Request) (domain.Request, error)) Transformer {
	return func(base leaf.Leaf) (leaf.Leaf, error) {
		return leaf.Override(base, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				mapped, err := fn(ctx, req)
				if err != nil {
					return domain.NextInvalid, err
				}
				return base.Next(ctx, mapped)
			},
		}), nil
	}
}

// MapInput rewrites the input of message and manual triggers.
func MapInput(fn func(ctx context.Context, input domain.Input) (domain.Input, error)) Transformer {
	return MapRequest(func(ctx context.Context, req domain.Request) (domain.Request, error) {
		if req.Input == nil {
			return req, nil
		}
		input, err := fn(ctx, req.Input)
		if err != nil {
			return req, err
		}
		req.Input = input
		return req, nil
	})
}

// MapContext rewrites the current context of every request.
func MapContext(fn func(ctx context.Context, c domain.Context) (domain.Context, error)) Transformer {
	return MapRequest(func(ctx context.Context, req domain.Request) (domain.Request, error) {
		c, err := fn(ctx, req.CurrentContext)
		if err != nil {
			return req, err
		}
		req.CurrentContext = c
		return req, nil
	})
}

// RequireInputTypes makes the wrapped leaf fall through unless the request
// carries one of the given input types.
func RequireInputTypes(types ...domain.InputType) Transformer {
	return func(base leaf.Leaf) (leaf.Leaf, error) {
		return leaf.Override(base, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				if req.Input == nil || !slices.Contains(types, req.InputType()) {
					return domain.NextFallthrough, nil
				}
				return base.Next(ctx, req)
			},
		}), nil
	}
}
