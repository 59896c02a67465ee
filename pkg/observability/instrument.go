package observability

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/transform"
)

// Instrument records every invocation of the wrapped leaf under name.
// It is meant for leaves used outside a selector, or nested inside one.
func Instrument(m *Metrics, name string) transform.Transformer {
	return func(l leaf.Leaf) (leaf.Leaf, error) {
		return leaf.Override(l, leaf.Overrides{
			Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
				start := time.Now()
				result, err := l.Next(ctx, req)
				m.ObserveLeaf(name, result, err, time.Since(start).Seconds())
				return result, err
			},
		}), nil
	}
}
