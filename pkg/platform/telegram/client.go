package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// BotAPI is the subset of *telego.Bot the client uses.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
}

// Client implements ports.PlatformClient on top of a Telegram bot.
type Client struct {
	bot BotAPI
}

// NewClient wraps an existing bot.
func NewClient(bot BotAPI) *Client {
	return &Client{bot: bot}
}

// NewBotClient creates a telego bot for token. An empty apiServer keeps the default.
func NewBotClient(token, apiServer string) (*Client, error) {
	var opts []telego.BotOption
	if apiServer != "" {
		opts = append(opts, telego.WithAPIServer(apiServer))
	}
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return NewClient(bot), nil
}

// SendResponse sends a payload produced by Translate and returns the sent message.
func (c *Client) SendResponse(ctx context.Context, payload any) (any, error) {
	switch p := payload.(type) {
	case *telego.SendMessageParams:
		return c.bot.SendMessage(ctx, p)
	case *telego.SendPhotoParams:
		return c.bot.SendPhoto(ctx, p)
	default:
		return nil, fmt.Errorf("unsupported telegram payload %T", payload)
	}
}

// SetTypingIndicator sends the typing chat action. Telegram clears it on its
// own once a message arrives, so disabling is a no-op.
func (c *Client) SetTypingIndicator(ctx context.Context, targetID string, enabled bool) error {
	if !enabled {
		return nil
	}
	id, err := strconv.ParseInt(targetID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", targetID, err)
	}
	return c.bot.SendChatAction(ctx, &telego.SendChatActionParams{ChatID: tu.ID(id), Action: telego.ChatActionTyping})
}
