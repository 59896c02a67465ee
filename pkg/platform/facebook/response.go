package facebook

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Recipient addresses a Send API call.
type Recipient struct {
	ID string `json:"id"`
}

// QuickReply is a Send API quick reply button.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// AttachmentPayload points at hosted media.
type AttachmentPayload struct {
	URL        string `json:"url"`
	IsReusable bool   `json:"is_reusable"`
}

// Attachment is a media message body.
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// Message is the body of a Send API call.
type Message struct {
	Text         string       `json:"text,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// SendRequest is one Send API call.
type SendRequest struct {
	Recipient     Recipient `json:"recipient"`
	MessagingType string    `json:"messaging_type,omitempty"`
	Message       *Message  `json:"message,omitempty"`
	SenderAction  string    `json:"sender_action,omitempty"`
}

// Translate turns each content item into one Send API call.
func Translate(resp domain.Response) ([]any, error) {
	payloads := make([]any, 0, len(resp.Output))
	for i, content := range resp.Output {
		msg := &Message{}
		switch content.Type {
		case domain.ContentText:
			msg.Text = content.Text
		case domain.ContentImage:
			msg.Attachment = &Attachment{Type: "image", Payload: AttachmentPayload{URL: content.URL, IsReusable: true}}
		default:
			return nil, fmt.Errorf("output %d: unsupported content type %q", i, content.Type)
		}
		for _, qr := range content.QuickReplies {
			msg.QuickReplies = append(msg.QuickReplies, QuickReply{ContentType: "text", Title: qr.Title, Payload: qr.Payload})
		}

		payloads = append(payloads, SendRequest{
			Recipient:     Recipient{ID: resp.TargetID},
			MessagingType: "RESPONSE",
			Message:       msg,
		})
	}
	return payloads, nil
}
