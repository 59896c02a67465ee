package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/messenger"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/platform/facebook"
	"github.com/aretw0/arbor/pkg/platform/telegram"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/aretw0/arbor/pkg/transform"
	"golang.org/x/time/rate"
)

// ErrNoPlatform is returned by New when no platform client was configured.
var ErrNoPlatform = errors.New("at least one platform client is required")

// Bot is the high-level entry point: a selector over a branch tree wired to
// one processor per configured platform.
type Bot struct {
	selector  *selector.Selector
	root      leaf.Leaf
	processor *messenger.CrossPlatformProcessor
	messenger *messenger.Messenger
	logger    *slog.Logger
}

type options struct {
	logger      *slog.Logger
	dao         ports.ContextDAO
	facebook    ports.PlatformClient
	telegram    ports.PlatformClient
	middlewares []messenger.Middleware
	hooks       []domain.LifecycleHooks
	transforms  []transform.Transformer
	metrics     *observability.Metrics
	limiter     *rate.Limiter
	typing      bool
	timeout     time.Duration
}

// Option configures the Bot.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContextDAO enables context persistence. Contexts are injected into every
// request and AdditionalContext is saved after each successful send, followed
// by a context trigger.
func WithContextDAO(dao ports.ContextDAO) Option {
	return func(o *options) {
		o.dao = dao
	}
}

// WithFacebook enables the Facebook platform.
func WithFacebook(client ports.PlatformClient) Option {
	return func(o *options) {
		o.facebook = client
	}
}

// WithTelegram enables the Telegram platform.
func WithTelegram(client ports.PlatformClient) Option {
	return func(o *options) {
		o.telegram = client
	}
}

// WithMiddleware appends processor middlewares. They wrap the built-in ones.
func WithMiddleware(mws ...messenger.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// WithSelectorHooks registers observability hooks on the selector.
// It may be given several times; all hooks run.
func WithSelectorHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks)
	}
}

// WithTransform wraps the selector itself, e.g. with transform.CatchError.
func WithTransform(ts ...transform.Transformer) Option {
	return func(o *options) {
		o.transforms = append(o.transforms, ts...)
	}
}

// WithMetrics records selector and delivery metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSendLimiter throttles outgoing payloads on every platform.
func WithSendLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithTypingIndicator shows a typing indicator while responses are sent.
func WithTypingIndicator() Option {
	return func(o *options) {
		o.typing = true
	}
}

// WithTimeout bounds the processing of one raw request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// New builds a bot over tree. The tree is enumerated once; later changes to it
// are not seen.
func New(ctx context.Context, tree *branch.Branch, opts ...Option) (*Bot, error) {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.facebook == nil && o.telegram == nil {
		return nil, ErrNoPlatform
	}

	hooks := o.hooks
	if o.metrics != nil {
		hooks = append(hooks, o.metrics.Hooks())
	}
	sel := selector.New(tree,
		selector.WithLogger(o.logger),
		selector.WithLifecycleHooks(observability.CombineHooks(hooks...)),
	)

	chain := transform.NewChain()
	for _, t := range o.transforms {
		chain.Pipe(t)
	}
	root, err := chain.Transform(sel)
	if err != nil {
		return nil, fmt.Errorf("failed to transform selector: %w", err)
	}

	b := &Bot{selector: sel, root: root, logger: o.logger}

	processors := map[domain.Platform]messenger.Processor{}
	if o.facebook != nil {
		p, err := facebook.NewProcessor(root, o.facebook, b.middlewares(o, o.facebook)...)
		if err != nil {
			return nil, fmt.Errorf("failed to build facebook processor: %w", err)
		}
		processors[domain.PlatformFacebook] = p
	}
	if o.telegram != nil {
		p, err := telegram.NewProcessor(root, o.telegram, b.middlewares(o, o.telegram)...)
		if err != nil {
			return nil, fmt.Errorf("failed to build telegram processor: %w", err)
		}
		processors[domain.PlatformTelegram] = p
	}
	b.processor = messenger.NewCrossPlatformProcessor(processors, messenger.WithProcessorLogger(o.logger))

	msgOpts := []messenger.Option{messenger.WithLogger(o.logger)}
	if o.timeout > 0 {
		msgOpts = append(msgOpts, messenger.WithTimeout(o.timeout))
	}
	b.messenger, err = messenger.New(ctx, root, b.processor, msgOpts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// middlewares lists processor middlewares from innermost to outermost.
func (b *Bot) middlewares(o *options, client ports.PlatformClient) []messenger.Middleware {
	var mws []messenger.Middleware
	if o.typing {
		mws = append(mws, messenger.SetTypingIndicator(client, o.logger))
	}
	if o.limiter != nil {
		mws = append(mws, messenger.ThrottleSend(o.limiter))
	}
	if o.metrics != nil {
		mws = append(mws, messenger.CountSent(o.metrics))
	}
	if o.dao != nil {
		mws = append(mws,
			messenger.InjectContextOnReceive(o.dao),
			messenger.SaveContextOnSend(o.dao,
				messenger.WithContextTrigger(b.root),
				messenger.WithSaveLogger(o.logger),
			),
		)
	}
	return append(mws, o.middlewares...)
}

// ProcessRawRequest handles one raw webhook payload from any configured platform.
func (b *Bot) ProcessRawRequest(ctx context.Context, raw []byte) error {
	return b.messenger.ProcessRawRequest(ctx, raw)
}

// ReceiveRequest handles an already generalized request.
func (b *Bot) ReceiveRequest(ctx context.Context, req domain.Request) error {
	return b.processor.ReceiveRequest(ctx, req)
}

// Leaves returns the enumerated leaves in the order they are tried.
func (b *Bot) Leaves() []selector.Enumeration {
	return b.selector.Leaves()
}

// Close stops relaying responses and completes every leaf.
func (b *Bot) Close(ctx context.Context) error {
	return errors.Join(b.messenger.Close(ctx), leaf.Complete(ctx, b.root))
}
