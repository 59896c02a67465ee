package leaf

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
)

// Handler is a partial leaf: request handling plus optional cleanup.
type Handler struct {
	Next     NextFunc
	Complete CompleteFunc
}

// Factory builds a Handler around the observer it should emit responses to.
type Factory func(out stream.Observer[domain.Response]) (Handler, error)

// HandlerFunc handles a request and emits responses to out.
type HandlerFunc func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error)

type base struct {
	subject *stream.Subject[domain.Response]
	handler Handler

	mu   sync.Mutex
	last *domain.Request
}

// Create builds a full Leaf from a factory.
//
// Every response emitted through the factory's observer gets OriginalRequest set
// to the request being handled. Errors returned (or panics raised) by the handler
// are annotated with the request's CurrentLeafName. Complete runs the handler's
// Complete and then closes the output stream.
func Create(factory Factory) (Leaf, error) {
	b := &base{subject: stream.NewSubject[domain.Response]()}
	handler, err := factory(stream.ObserverFunc[domain.Response](b.emit))
	if err != nil {
		return nil, fmt.Errorf("failed to create leaf: %w", err)
	}
	if handler.Next == nil {
		return nil, fmt.Errorf("failed to create leaf: handler has no Next")
	}
	b.handler = handler
	return b, nil
}

// FromFunc builds a leaf from a single handler function.
func FromFunc(fn HandlerFunc) Leaf {
	b := &base{subject: stream.NewSubject[domain.Response]()}
	out := stream.ObserverFunc[domain.Response](b.emit)
	b.handler = Handler{
		Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
			return fn(ctx, req, out)
		},
	}
	return b
}

func (b *base) emit(ctx context.Context, resp domain.Response) (domain.NextResult, error) {
	if resp.OriginalRequest == nil {
		if req, ok := domain.RequestFromContext(ctx); ok {
			resp.OriginalRequest = &req
		} else {
			b.mu.Lock()
			resp.OriginalRequest = b.last
			b.mu.Unlock()
		}
	}
	return b.subject.Next(ctx, resp)
}

func (b *base) Next(ctx context.Context, req domain.Request) (result domain.NextResult, err error) {
	b.mu.Lock()
	last := req
	b.last = &last
	b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result, err = domain.NextInvalid, annotate(fmt.Errorf("panic: %v", r), req.CurrentLeafName)
		}
	}()

	result, err = b.handler.Next(domain.WithRequest(ctx, req), req)
	if err != nil {
		return result, annotate(err, req.CurrentLeafName)
	}
	return result, nil
}

func (b *base) Complete(ctx context.Context) error {
	var errs []error
	if b.handler.Complete != nil {
		if err := b.handler.Complete(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := b.subject.Complete(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b *base) Subscribe(ctx context.Context, observer stream.Observer[domain.Response]) (stream.Subscription, error) {
	return b.subject.Subscribe(ctx, observer)
}

// Reply emits a response addressed to the sender of req.
func Reply(ctx context.Context, out stream.Observer[domain.Response], req domain.Request, output ...domain.Content) (domain.NextResult, error) {
	return out.Next(ctx, domain.ReplyTo(req, output...))
}
