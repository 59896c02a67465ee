package messenger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/tidwall/gjson"
)

// Resolver decides which platform produced a raw payload.
type Resolver func(raw []byte) (domain.Platform, error)

// ResolvePlatform inspects the payload shape: Facebook webhooks are page
// objects with entries, Telegram updates carry an update_id.
func ResolvePlatform(raw []byte) (domain.Platform, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: payload is not valid JSON", domain.ErrUnknownPlatform)
	}

	body := gjson.ParseBytes(raw)
	switch {
	case body.Get("object").String() == "page", body.Get("entry").IsArray():
		return domain.PlatformFacebook, nil
	case body.Get("update_id").Exists():
		return domain.PlatformTelegram, nil
	default:
		return "", domain.ErrUnknownPlatform
	}
}

// CrossPlatformProcessor routes payloads and responses to per-platform processors.
type CrossPlatformProcessor struct {
	processors map[domain.Platform]Processor
	resolve    Resolver
	logger     *slog.Logger
}

// CrossPlatformOption configures the CrossPlatformProcessor.
type CrossPlatformOption func(*CrossPlatformProcessor)

// WithResolver replaces the payload-shape resolver.
func WithResolver(r Resolver) CrossPlatformOption {
	return func(p *CrossPlatformProcessor) {
		p.resolve = r
	}
}

// WithProcessorLogger configures the structured logger.
func WithProcessorLogger(logger *slog.Logger) CrossPlatformOption {
	return func(p *CrossPlatformProcessor) {
		p.logger = logger
	}
}

// NewCrossPlatformProcessor composes processors keyed by platform. Nil entries are ignored.
func NewCrossPlatformProcessor(processors map[domain.Platform]Processor, opts ...CrossPlatformOption) *CrossPlatformProcessor {
	p := &CrossPlatformProcessor{
		processors: make(map[domain.Platform]Processor, len(processors)),
		resolve:    ResolvePlatform,
		logger:     logging.NewNop(),
	}
	for platform, proc := range processors {
		if proc != nil {
			p.processors[platform] = proc
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CrossPlatformProcessor) processorFor(platform domain.Platform) (Processor, error) {
	proc, ok := p.processors[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoProcessor, platform)
	}
	return proc, nil
}

// GeneralizeRequest resolves the platform and delegates to its processor.
func (p *CrossPlatformProcessor) GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error) {
	platform, err := p.resolve(raw)
	if err != nil {
		return nil, err
	}
	proc, err := p.processorFor(platform)
	if err != nil {
		return nil, err
	}
	return proc.GeneralizeRequest(ctx, raw)
}

// ReceiveRequest routes by the request's platform.
func (p *CrossPlatformProcessor) ReceiveRequest(ctx context.Context, req domain.Request) error {
	proc, err := p.processorFor(req.TargetPlatform)
	if err != nil {
		return err
	}
	return proc.ReceiveRequest(ctx, req)
}

// SendResponse routes by the response's platform.
func (p *CrossPlatformProcessor) SendResponse(ctx context.Context, resp domain.Response) ([]any, error) {
	proc, err := p.processorFor(resp.TargetPlatform)
	if err != nil {
		return nil, err
	}
	return proc.SendResponse(ctx, resp)
}

// ProcessRawRequest resolves the platform of raw and receives every generalized
// request sequentially, in payload order.
func (p *CrossPlatformProcessor) ProcessRawRequest(ctx context.Context, raw []byte) error {
	reqs, err := p.GeneralizeRequest(ctx, raw)
	if err != nil {
		return err
	}
	p.logger.Debug("Raw request generalized", "requests", len(reqs))

	for _, req := range reqs {
		if err := p.ReceiveRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
