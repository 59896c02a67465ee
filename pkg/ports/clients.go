package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// NLUClient interprets free text.
type NLUClient interface {
	Validate(ctx context.Context, text string) (domain.WitResponse, error)
}

// PlatformClient talks to one messaging platform.
type PlatformClient interface {
	// SendResponse delivers one platform-specific payload.
	SendResponse(ctx context.Context, payload any) (any, error)

	// SetTypingIndicator toggles the typing indicator for a conversation.
	SetTypingIndicator(ctx context.Context, targetID string, enabled bool) error
}
