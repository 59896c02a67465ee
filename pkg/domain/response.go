package domain

// ContentType tags the variant of a Content item.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// QuickReply is a tappable suggestion shown under a message.
type QuickReply struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Content is one outgoing message item.
type Content struct {
	Type         ContentType  `json:"type"`
	Text         string       `json:"text,omitempty"`
	URL          string       `json:"url,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// TextContent is shorthand for a text item.
func TextContent(text string) Content {
	return Content{Type: ContentText, Text: text}
}

// Response is the outgoing content for one conversation.
//
// AdditionalContext, when not empty, is merged into the persisted context after
// the platform accepted the output.
type Response struct {
	TargetID          string
	TargetPlatform    Platform
	Output            []Content
	AdditionalContext Context

	// OriginalRequest is the request that caused this response, if known.
	OriginalRequest *Request
}

// Target returns the conversation this response is addressed to.
func (r Response) Target() Target {
	return Target{ID: r.TargetID, Platform: r.TargetPlatform}
}

// ReplyTo builds a response addressed to the sender of req.
func ReplyTo(req Request, output ...Content) Response {
	return Response{
		TargetID:       req.TargetID,
		TargetPlatform: req.TargetPlatform,
		Output:         output,
	}
}
