package messenger

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/ports"
)

// Processor is the request/response lifecycle of one platform.
type Processor interface {
	// GeneralizeRequest maps a raw webhook body into zero or more requests.
	GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error)

	// ReceiveRequest feeds one request into the selector.
	ReceiveRequest(ctx context.Context, req domain.Request) error

	// SendResponse translates a response and delivers it, returning the raw platform results.
	SendResponse(ctx context.Context, resp domain.Response) ([]any, error)
}

// GeneralizeFunc parses a raw platform payload.
type GeneralizeFunc func(ctx context.Context, raw []byte) ([]domain.Request, error)

// TranslateFunc turns a response into platform payloads, one per API call.
type TranslateFunc func(resp domain.Response) ([]any, error)

// Config describes a platform processor.
type Config struct {
	Platform   domain.Platform
	Selector   leaf.Leaf
	Client     ports.PlatformClient
	Generalize GeneralizeFunc
	Translate  TranslateFunc
}

// Middleware wraps a Processor.
type Middleware func(Processor) Processor

// NewProcessor builds a processor from cfg and applies middlewares in order,
// so the first middleware is the innermost one.
func NewProcessor(cfg Config, middlewares ...Middleware) (Processor, error) {
	if cfg.Selector == nil {
		return nil, errors.New("processor requires a selector")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("processor for %s requires a client", cfg.Platform)
	}
	if cfg.Generalize == nil || cfg.Translate == nil {
		return nil, fmt.Errorf("processor for %s requires generalize and translate functions", cfg.Platform)
	}

	var p Processor = &processor{cfg: cfg}
	for _, mw := range middlewares {
		p = mw(p)
	}
	return p, nil
}

type processor struct {
	cfg Config
}

func (p *processor) GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error) {
	reqs, err := p.cfg.Generalize(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to generalize %s request: %w", p.cfg.Platform, err)
	}
	return reqs, nil
}

func (p *processor) ReceiveRequest(ctx context.Context, req domain.Request) error {
	_, err := p.cfg.Selector.Next(ctx, req)
	return err
}

func (p *processor) SendResponse(ctx context.Context, resp domain.Response) ([]any, error) {
	payloads, err := p.cfg.Translate(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to translate %s response: %w", p.cfg.Platform, err)
	}

	results := make([]any, 0, len(payloads))
	for _, payload := range payloads {
		res, err := p.cfg.Client.SendResponse(ctx, payload)
		if err != nil {
			return results, fmt.Errorf("failed to send %s response to %s: %w", p.cfg.Platform, resp.TargetID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ProcessRaw generalizes raw with p and receives every request in order.
// It stops at the first failing request.
func ProcessRaw(ctx context.Context, p Processor, raw []byte) error {
	reqs, err := p.GeneralizeRequest(ctx, raw)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		if err := p.ReceiveRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Overrides replaces individual processor methods; nil fields delegate.
type Overrides struct {
	GeneralizeRequest GeneralizeFunc
	ReceiveRequest    func(ctx context.Context, req domain.Request) error
	SendResponse      func(ctx context.Context, resp domain.Response) ([]any, error)
}

// Override returns a processor that uses o where set and base otherwise.
func Override(base Processor, o Overrides) Processor {
	return &overridden{base: base, o: o}
}

type overridden struct {
	base Processor
	o    Overrides
}

func (p *overridden) GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error) {
	if p.o.GeneralizeRequest != nil {
		return p.o.GeneralizeRequest(ctx, raw)
	}
	return p.base.GeneralizeRequest(ctx, raw)
}

func (p *overridden) ReceiveRequest(ctx context.Context, req domain.Request) error {
	if p.o.ReceiveRequest != nil {
		return p.o.ReceiveRequest(ctx, req)
	}
	return p.base.ReceiveRequest(ctx, req)
}

func (p *overridden) SendResponse(ctx context.Context, resp domain.Response) ([]any, error) {
	if p.o.SendResponse != nil {
		return p.o.SendResponse(ctx, resp)
	}
	return p.base.SendResponse(ctx, resp)
}
