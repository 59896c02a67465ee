package leaf

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// PlatformHandlers holds one handler per platform. Missing entries are allowed
// until a request for that platform arrives.
type PlatformHandlers struct {
	Facebook *Handler
	Telegram *Handler
}

// ByPlatform returns a handler that routes each request to the handler of its
// target platform. A request for a platform without a handler fails with
// domain.ErrMissingPlatformHandler. Complete completes every handler present.
func ByPlatform(handlers PlatformHandlers) Handler {
	return Handler{
		Next: func(ctx context.Context, req domain.Request) (domain.NextResult, error) {
			var h *Handler
			switch req.TargetPlatform {
			case domain.PlatformFacebook:
				h = handlers.Facebook
			case domain.PlatformTelegram:
				h = handlers.Telegram
			default:
				return domain.NextInvalid, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, req.TargetPlatform)
			}
			if h == nil || h.Next == nil {
				return domain.NextInvalid, fmt.Errorf("%w: %s", domain.ErrMissingPlatformHandler, req.TargetPlatform)
			}
			return h.Next(ctx, req)
		},
		Complete: func(ctx context.Context) error {
			var errs []error
			for _, h := range []*Handler{handlers.Facebook, handlers.Telegram} {
				if h == nil || h.Complete == nil {
					continue
				}
				if err := h.Complete(ctx); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}
