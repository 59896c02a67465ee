package messenger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
)

// Messenger relays a selector's responses to a processor and accepts raw payloads.
// It holds the selector's only subscription.
type Messenger struct {
	processor    Processor
	subscription stream.Subscription
	timeout      time.Duration
	logger       *slog.Logger

	closeOnce sync.Once
}

// Option configures the Messenger.
type Option func(*Messenger)

// WithTimeout bounds ProcessRawRequest. Processing is cancelled when it expires.
func WithTimeout(d time.Duration) Option {
	return func(m *Messenger) {
		m.timeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Messenger) {
		m.logger = logger
	}
}

// New subscribes to sel and relays every response to processor.SendResponse.
func New(ctx context.Context, sel stream.Observable[domain.Response], processor Processor, opts ...Option) (*Messenger, error) {
	m := &Messenger{
		processor: processor,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	sub, err := sel.Subscribe(ctx, stream.ObserverFunc[domain.Response](m.relay))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe messenger: %w", err)
	}
	m.subscription = sub
	return m, nil
}

func (m *Messenger) relay(ctx context.Context, resp domain.Response) (domain.NextResult, error) {
	results, err := m.processor.SendResponse(ctx, resp)
	if err != nil {
		m.logger.Error("Failed to send response", "target_id", resp.TargetID, "platform", resp.TargetPlatform, "err", err)
		return domain.NextInvalid, err
	}
	m.logger.Debug("Response sent", "target_id", resp.TargetID, "platform", resp.TargetPlatform, "payloads", len(results))
	return domain.NextBreak, nil
}

// ProcessRawRequest generalizes raw and receives every resulting request in order.
func (m *Messenger) ProcessRawRequest(ctx context.Context, raw []byte) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	if rp, ok := m.processor.(interface {
		ProcessRawRequest(context.Context, []byte) error
	}); ok {
		return rp.ProcessRawRequest(ctx, raw)
	}
	return ProcessRaw(ctx, m.processor, raw)
}

// Processor returns the processor responses are relayed to.
func (m *Messenger) Processor() Processor {
	return m.processor
}

// Close stops relaying responses.
func (m *Messenger) Close(ctx context.Context) error {
	var err error
	m.closeOnce.Do(func() {
		err = m.subscription.Unsubscribe(ctx)
	})
	return err
}
