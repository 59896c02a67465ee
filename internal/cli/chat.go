package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/platform/telegram"
	"github.com/mymmrac/telego"
)

// ChatTargetID is the Telegram chat id used for the console conversation.
const ChatTargetID = "1"

// ChatOptions configures RunChat.
type ChatOptions struct {
	In       io.Reader
	Out      io.Writer
	Renderer tui.Renderer
}

// consoleClient stands in for the Telegram API and prints what the bot sends.
type consoleClient struct {
	out    io.Writer
	render tui.Renderer

	mu      sync.Mutex
	replies map[string]string
}

func (c *consoleClient) SendResponse(ctx context.Context, payload any) (any, error) {
	var (
		text   string
		markup telego.ReplyMarkup
	)
	switch p := payload.(type) {
	case *telego.SendMessageParams:
		text, markup = p.Text, p.ReplyMarkup
	case *telego.SendPhotoParams:
		text, markup = fmt.Sprintf("![%s](%s)", p.Caption, p.Photo.URL), p.ReplyMarkup
	default:
		return nil, fmt.Errorf("unsupported console payload %T", payload)
	}

	rendered, err := c.render(text)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(c.out, rendered)

	if kb, ok := markup.(*telego.InlineKeyboardMarkup); ok {
		c.mu.Lock()
		c.replies = map[string]string{}
		var titles []string
		for _, row := range kb.InlineKeyboard {
			for _, button := range row {
				c.replies[strings.ToLower(button.Text)] = button.CallbackData
				titles = append(titles, "["+button.Text+"]")
			}
		}
		c.mu.Unlock()
		fmt.Fprintln(c.out, strings.Join(titles, " "))
	}
	return nil, nil
}

func (c *consoleClient) SetTypingIndicator(ctx context.Context, targetID string, enabled bool) error {
	return nil
}

// input turns a console line into a request input. Lines matching a quick
// reply title shown last become postbacks.
func (c *consoleClient) input(line string) domain.Input {
	c.mu.Lock()
	payload, ok := c.replies[strings.ToLower(line)]
	c.mu.Unlock()
	if ok {
		return domain.PostbackInput{Payload: payload}
	}
	if strings.HasPrefix(line, "/") {
		return telegram.ParseCommand(line)
	}
	return domain.TextInput{Text: line}
}

// RunChat talks to the demo bot on the console until the input ends or the
// user types /quit.
func RunChat(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ChatOptions) error {
	render := opts.Renderer
	if render == nil {
		render = tui.PlainRenderer()
	}
	client := &consoleClient{out: opts.Out, render: render}

	components, err := BuildBot(ctx, cfg, logger, arbor.WithTelegram(client))
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(context.Background()); err != nil {
			logger.Warn("Failed to close bot", "err", err)
		}
	}()

	printSystemMessage(opts.Out, "Chat started. Type /quit to leave.")

	target := domain.Target{ID: ChatTargetID, Platform: domain.PlatformTelegram}
	scanner := bufio.NewScanner(opts.In)
	for {
		fmt.Fprint(opts.Out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "exit" {
			break
		}

		req := domain.NewMessageRequest(target, client.input(line))
		if err := components.Bot.ReceiveRequest(ctx, req); err != nil {
			printSystemMessage(opts.Out, "Error: %v", err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	fmt.Fprintln(opts.Out)
	printSystemMessage(opts.Out, "Bye!")
	return scanner.Err()
}
