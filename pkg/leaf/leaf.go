package leaf

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
)

// Leaf is a candidate handler for incoming requests.
//
// Leaves may additionally implement stream.Completer to release resources.
type Leaf interface {
	stream.Observable[domain.Response]
	Next(ctx context.Context, req domain.Request) (domain.NextResult, error)
}

// NextFunc handles one request.
type NextFunc func(ctx context.Context, req domain.Request) (domain.NextResult, error)

// CompleteFunc releases resources held by a leaf.
type CompleteFunc func(ctx context.Context) error

// SubscribeFunc attaches an observer to a leaf's output.
type SubscribeFunc func(ctx context.Context, observer stream.Observer[domain.Response]) (stream.Subscription, error)

// Complete completes l if it has the capability.
func Complete(ctx context.Context, l Leaf) error {
	return stream.Complete(ctx, l)
}

// Overrides replaces parts of a leaf. Nil fields delegate to the wrapped leaf.
type Overrides struct {
	Next      NextFunc
	Complete  CompleteFunc
	Subscribe SubscribeFunc
}

type overridden struct {
	base Leaf
	o    Overrides
}

// Override returns a leaf that uses the given functions instead of base's.
// Transformers are written with it.
func Override(base Leaf, o Overrides) Leaf {
	return &overridden{base: base, o: o}
}

func (l *overridden) Next(ctx context.Context, req domain.Request) (domain.NextResult, error) {
	if l.o.Next != nil {
		return l.o.Next(ctx, req)
	}
	return l.base.Next(ctx, req)
}

func (l *overridden) Complete(ctx context.Context) error {
	if l.o.Complete != nil {
		return l.o.Complete(ctx)
	}
	return Complete(ctx, l.base)
}

func (l *overridden) Subscribe(ctx context.Context, observer stream.Observer[domain.Response]) (stream.Subscription, error) {
	if l.o.Subscribe != nil {
		return l.o.Subscribe(ctx, observer)
	}
	return l.base.Subscribe(ctx, observer)
}
