package transform

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/ports"
)

// RetryWithWit gives text requests a second chance: when the wrapped leaf does
// not BREAK, the text is sent to the NLU client and the leaf is invoked once more
// with a manual trigger carrying the wit input. Other inputs are passed through.
// NLU failures are returned as errors; there is no further retry.
func RetryWithWit(client ports.NLUClient) Transformer {
	return func(base leaf.Leaf) (leaf.Leaf, error) {
		if client == nil {
			return nil, fmt.Errorf("retry with wit: client is required")
		}

		return leaf.Override(base, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				text, ok := req.Input.(domain.TextInput)
				if !ok {
					return base.Next(ctx, req)
				}

				result, err := base.Next(ctx, req)
				if err != nil || result == domain.NextBreak {
					return result, err
				}

				interpreted, err := client.Validate(ctx, text.Text)
				if err != nil {
					return domain.NextInvalid, fmt.Errorf("wit validation failed: %w", err)
				}

				retry := req
				retry.Type = domain.TriggerManual
				retry.Input = interpreted.ToInput()
				return base.Next(ctx, retry)
			},
		}), nil
	}
}
