package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	json "github.com/goccy/go-json"
	"github.com/mymmrac/telego"
)

// GeneralizeRequest decodes one update. Updates without a recognised input yield no request.
func GeneralizeRequest(ctx context.Context, raw []byte) ([]domain.Request, error) {
	var update telego.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		return nil, fmt.Errorf("failed to decode telegram update: %w", err)
	}
	return FromUpdate(update), nil
}

// FromUpdate maps a decoded update to requests.
func FromUpdate(update telego.Update) []domain.Request {
	if cb := update.CallbackQuery; cb != nil {
		target := domain.Target{ID: strconv.FormatInt(cb.From.ID, 10), Platform: domain.PlatformTelegram}
		return []domain.Request{domain.NewMessageRequest(target, domain.PostbackInput{Payload: cb.Data})}
	}

	msg := update.Message
	if msg == nil {
		return nil
	}
	target := domain.Target{ID: strconv.FormatInt(msg.Chat.ID, 10), Platform: domain.PlatformTelegram}

	var inputs []domain.Input
	switch {
	case strings.HasPrefix(msg.Text, "/"):
		inputs = append(inputs, ParseCommand(msg.Text))
	case msg.Text != "":
		inputs = append(inputs, domain.TextInput{Text: msg.Text})
	case len(msg.Photo) > 0:
		// Telegram lists sizes ascending; keep the largest.
		inputs = append(inputs, domain.ImageInput{FileID: msg.Photo[len(msg.Photo)-1].FileID})
	case msg.Document != nil:
		inputs = append(inputs, domain.DocumentInput{FileID: msg.Document.FileID, FileName: msg.Document.FileName})
	case msg.Location != nil:
		inputs = append(inputs, domain.LocationInput{Latitude: msg.Location.Latitude, Longitude: msg.Location.Longitude})
	}
	if len(msg.NewChatMembers) > 0 {
		inputs = append(inputs, domain.JoinedChatInput{})
	}
	if msg.LeftChatMember != nil {
		inputs = append(inputs, domain.LeftChatInput{})
	}

	reqs := make([]domain.Request, 0, len(inputs))
	for _, in := range inputs {
		reqs = append(reqs, domain.NewMessageRequest(target, in))
	}
	return reqs
}

// ParseCommand splits "/start@my_bot a b" into command "start" and args [a b].
func ParseCommand(text string) domain.CommandInput {
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return domain.CommandInput{}
	}
	command, _, _ := strings.Cut(fields[0], "@")
	return domain.CommandInput{Command: command, Args: fields[1:]}
}
