package transform

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
)

// CatchAll turns every FALLTHROUGH of a message or manual trigger into BREAK,
// invoking onCatchAll first. Context triggers are passed through unchanged.
func CatchAll(onCatchAll func(ctx context.Context, req domain.Request) error) Transformer {
	return func(base leaf.Leaf) (leaf.Leaf, error) {
		return leaf.Override(base, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				result, err := base.Next(ctx, req)
				if err != nil {
					return result, err
				}
				if result != domain.NextFallthrough || !req.IsUserFacing() {
					return result, nil
				}
				if onCatchAll != nil {
					if err := onCatchAll(ctx, req); err != nil {
						return domain.NextInvalid, err
					}
				}
				return domain.NextBreak, nil
			},
		}), nil
	}
}
