package messenger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"golang.org/x/time/rate"
)

// InjectContextOnReceive loads the conversation context into requests that do not carry one.
func InjectContextOnReceive(dao ports.ContextDAO) Middleware {
	return func(next Processor) Processor {
		return Override(next, Overrides{
			ReceiveRequest: func(ctx context.Context, req domain.Request) error {
				if req.CurrentContext == nil {
					current, err := dao.GetContext(ctx, req.Target())
					if err != nil {
						return fmt.Errorf("failed to load context for %s: %w", req.Target().Key(), err)
					}
					req.CurrentContext = current
				}
				return next.ReceiveRequest(ctx, req)
			},
		})
	}
}

// SaveOption configures SaveContextOnSend.
type SaveOption func(*saveConfig)

type saveConfig struct {
	trigger leaf.Leaf
	logger  *slog.Logger
}

// WithContextTrigger feeds a context trigger into target after every successful save.
// Responses to context triggers never produce another trigger.
func WithContextTrigger(target leaf.Leaf) SaveOption {
	return func(c *saveConfig) {
		c.trigger = target
	}
}

// WithSaveLogger configures the structured logger.
func WithSaveLogger(logger *slog.Logger) SaveOption {
	return func(c *saveConfig) {
		c.logger = logger
	}
}

// SaveContextOnSend appends Response.AdditionalContext through dao once the
// response was delivered. Nothing is written after ctx is done.
func SaveContextOnSend(dao ports.ContextDAO, opts ...SaveOption) Middleware {
	cfg := saveConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next Processor) Processor {
		return Override(next, Overrides{
			SendResponse: func(ctx context.Context, resp domain.Response) ([]any, error) {
				results, err := next.SendResponse(ctx, resp)
				if err != nil || len(resp.AdditionalContext) == 0 {
					return results, err
				}
				if err := ctx.Err(); err != nil {
					return results, fmt.Errorf("context not saved for %s: %w", resp.Target().Key(), err)
				}

				change, err := dao.AppendContext(ctx, resp.Target(), resp.AdditionalContext, nil)
				if err != nil {
					return results, fmt.Errorf("failed to save context for %s: %w", resp.Target().Key(), err)
				}
				cfg.logger.Debug("Context saved", "target_id", resp.TargetID, "platform", resp.TargetPlatform, "keys", len(resp.AdditionalContext))

				if cfg.trigger == nil || isContextTriggered(resp) {
					return results, nil
				}

				trigger := domain.Request{
					Type:           domain.TriggerContext,
					TargetID:       resp.TargetID,
					TargetPlatform: resp.TargetPlatform,
					CurrentContext: change.NewContext,
					OldContext:     change.OldContext,
					NewContext:     change.NewContext,
					ChangedContext: resp.AdditionalContext,
				}
				if _, err := cfg.trigger.Next(ctx, trigger); err != nil && !errors.Is(err, domain.ErrNothingToSay) {
					return results, fmt.Errorf("context trigger failed for %s: %w", resp.Target().Key(), err)
				}
				return results, nil
			},
		})
	}
}

func isContextTriggered(resp domain.Response) bool {
	return resp.OriginalRequest != nil && resp.OriginalRequest.Type == domain.TriggerContext
}

// SetTypingIndicator turns typing on before a send and off afterwards.
// Failing to turn it off is logged, not returned.
func SetTypingIndicator(client ports.PlatformClient, logger *slog.Logger) Middleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(next Processor) Processor {
		return Override(next, Overrides{
			SendResponse: func(ctx context.Context, resp domain.Response) ([]any, error) {
				if err := client.SetTypingIndicator(ctx, resp.TargetID, true); err != nil {
					return nil, fmt.Errorf("failed to enable typing indicator: %w", err)
				}
				defer func() {
					if err := client.SetTypingIndicator(context.WithoutCancel(ctx), resp.TargetID, false); err != nil {
						logger.Warn("Failed to disable typing indicator", "target_id", resp.TargetID, "platform", resp.TargetPlatform, "err", err)
					}
				}()
				return next.SendResponse(ctx, resp)
			},
		})
	}
}

// ThrottleSend waits for limiter before every send.
func ThrottleSend(limiter *rate.Limiter) Middleware {
	return func(next Processor) Processor {
		return Override(next, Overrides{
			SendResponse: func(ctx context.Context, resp domain.Response) ([]any, error) {
				if err := limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("send throttled: %w", err)
				}
				return next.SendResponse(ctx, resp)
			},
		})
	}
}

// CountSent records every delivered response in m.
func CountSent(m *observability.Metrics) Middleware {
	return func(next Processor) Processor {
		return Override(next, Overrides{
			SendResponse: func(ctx context.Context, resp domain.Response) ([]any, error) {
				results, err := next.SendResponse(ctx, resp)
				if err == nil {
					m.ObserveSent(resp.TargetPlatform)
				}
				return results, err
			},
		})
	}
}
