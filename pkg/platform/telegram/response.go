package telegram

import (
	"fmt"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Translate turns each content item into a *telego.SendMessageParams or *telego.SendPhotoParams.
func Translate(resp domain.Response) ([]any, error) {
	id, err := strconv.ParseInt(resp.TargetID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", resp.TargetID, err)
	}
	chat := tu.ID(id)

	payloads := make([]any, 0, len(resp.Output))
	for i, content := range resp.Output {
		markup := keyboard(content.QuickReplies)
		switch content.Type {
		case domain.ContentText:
			params := tu.Message(chat, content.Text)
			if markup != nil {
				params = params.WithReplyMarkup(markup)
			}
			payloads = append(payloads, params)
		case domain.ContentImage:
			params := tu.Photo(chat, tu.FileFromURL(content.URL)).WithCaption(content.Text)
			if markup != nil {
				params = params.WithReplyMarkup(markup)
			}
			payloads = append(payloads, params)
		default:
			return nil, fmt.Errorf("output %d: unsupported content type %q", i, content.Type)
		}
	}
	return payloads, nil
}

func keyboard(replies []domain.QuickReply) *telego.InlineKeyboardMarkup {
	if len(replies) == 0 {
		return nil
	}
	row := make([]telego.InlineKeyboardButton, 0, len(replies))
	for _, qr := range replies {
		row = append(row, tu.InlineKeyboardButton(qr.Title).WithCallbackData(qr.Payload))
	}
	return tu.InlineKeyboard(row)
}
