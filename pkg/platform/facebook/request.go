package facebook

import (
	"context"
	"errors"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned for bodies that are not webhook events.
var ErrInvalidPayload = errors.New("invalid facebook webhook payload")

// GeneralizeRequest maps every messaging event of every entry to a request, in
// payload order. Events without a recognised input are skipped.
func GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}

	var reqs []domain.Request
	gjson.GetBytes(raw, "entry").ForEach(func(_, entry gjson.Result) bool {
		entry.Get("messaging").ForEach(func(_, event gjson.Result) bool {
			senderID := event.Get("sender.id").String()
			if senderID == "" {
				return true
			}
			target := domain.Target{ID: senderID, Platform: domain.PlatformFacebook}
			for _, input := range eventInputs(event) {
				reqs = append(reqs, domain.NewMessageRequest(target, input))
			}
			return true
		})
		return true
	})
	return reqs, nil
}

func eventInputs(event gjson.Result) []domain.Input {
	if payload := event.Get("postback.payload"); payload.Exists() {
		return []domain.Input{domain.PostbackInput{Payload: payload.String()}}
	}

	message := event.Get("message")
	if !message.Exists() || message.Get("is_echo").Bool() {
		return nil
	}
	if payload := message.Get("quick_reply.payload"); payload.Exists() {
		return []domain.Input{domain.PostbackInput{Payload: payload.String()}}
	}
	if text := message.Get("text"); text.Exists() {
		return []domain.Input{domain.TextInput{Text: text.String()}}
	}

	var inputs []domain.Input
	message.Get("attachments").ForEach(func(_, att gjson.Result) bool {
		switch att.Get("type").String() {
		case "image":
			inputs = append(inputs, domain.ImageInput{URL: att.Get("payload.url").String()})
		case "file":
			inputs = append(inputs, domain.DocumentInput{URL: att.Get("payload.url").String()})
		case "location":
			inputs = append(inputs, domain.LocationInput{
				Latitude:  att.Get("payload.coordinates.lat").Float(),
				Longitude: att.Get("payload.coordinates.long").Float(),
			})
		}
		return true
	})
	return inputs
}
