package domain

import "context"

// Platform identifies the messaging service a conversation lives on.
type Platform string

const (
	PlatformFacebook Platform = "facebook"
	PlatformTelegram Platform = "telegram"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{PlatformFacebook, PlatformTelegram}

// TriggerType tags the variant of a Request.
type TriggerType string

const (
	// TriggerMessage is produced from a platform message.
	TriggerMessage TriggerType = "message_trigger"
	// TriggerManual is produced by code (transformers, schedulers) rather than a user.
	TriggerManual TriggerType = "manual_trigger"
	// TriggerContext notifies leaves that only the conversation context changed.
	TriggerContext TriggerType = "context_trigger"
)

// Target identifies one conversation.
type Target struct {
	ID       string
	Platform Platform
}

// Key returns the storage key for the conversation ("telegram:1234").
func (t Target) Key() string {
	return string(t.Platform) + ":" + t.ID
}

// Request is one incoming trigger for a conversation.
//
// Message and manual triggers carry exactly one Input. Context triggers carry
// OldContext, NewContext and ChangedContext instead and leave Input nil.
type Request struct {
	Type            TriggerType
	TargetID        string
	TargetPlatform  Platform
	CurrentContext  Context
	CurrentLeafName string

	Input Input

	OldContext     Context
	NewContext     Context
	ChangedContext Context
}

// Target returns the conversation this request belongs to.
func (r Request) Target() Target {
	return Target{ID: r.TargetID, Platform: r.TargetPlatform}
}

// InputType returns the type of the carried input, or the empty string for context triggers.
func (r Request) InputType() InputType {
	if r.Input == nil {
		return ""
	}
	return r.Input.InputType()
}

// IsUserFacing reports whether the request is a message or manual trigger.
func (r Request) IsUserFacing() bool {
	return r.Type == TriggerMessage || r.Type == TriggerManual
}

// NewMessageRequest builds a message trigger for the given conversation.
// CurrentContext is left nil so the stored context can be injected later.
func NewMessageRequest(target Target, input Input) Request {
	return Request{
		Type:           TriggerMessage,
		TargetID:       target.ID,
		TargetPlatform: target.Platform,
		Input:          input,
	}
}

type requestKey struct{}

// WithRequest returns a copy of ctx carrying the request being handled.
// Leaves built with leaf.Create use it to tag emitted responses.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the request stored by WithRequest.
func RequestFromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}
