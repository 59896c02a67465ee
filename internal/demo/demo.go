// Package demo assembles the sample bot served by the arbor CLI.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/stream"
	"github.com/aretw0/arbor/pkg/transform"
)

// PostbackCount is the payload of the "Count" quick reply.
const PostbackCount = "COUNT"

// MilestoneEvery is how often the counter celebrates.
const MilestoneEvery = 5

// ErrCrash is returned by the /crash command.
var ErrCrash = errors.New("crash requested")

// Options configures the demo tree.
type Options struct {
	// NLU enables a second pass through Wit for text nobody understood.
	NLU        ports.NLUClient
	Logger     *slog.Logger
	TrackError func(ctx context.Context, report leaf.ErrorReport)

	// MaxInputSize bounds text inputs; see transform.SanitizeText.
	MaxInputSize int
}

// Counter is the typed view of the conversation context.
type Counter struct {
	Count int `mapstructure:"count"`
}

// Tree builds the demo conversation tree. Every leaf is wrapped so that its
// errors end up in its own error leaf; the last leaf never falls through for
// user-facing requests.
func Tree(opts Options) (*branch.Branch, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	w := wrapper{opts: opts}

	root := branch.New()
	chat := root.Sub("chat")
	w.add(chat, "greeting", greetingLeaf())
	w.add(chat, "counter", counterLeaf())
	w.add(chat, "milestone", milestoneLeaf())
	w.add(chat, "echo", echoLeaf())

	commands := root.Sub("commands")
	w.add(commands, "help", helpLeaf())
	w.add(commands, "crash", crashLeaf())

	var intentChain []transform.Transformer
	if opts.NLU != nil {
		intentChain = append(intentChain, transform.RetryWithWit(opts.NLU))
	}
	w.add(root.Sub("nlu"), "intent", intentLeaf(), intentChain...)

	w.add(root.Sub("fallback"), "sorry", sorryLeaf(), transform.CatchAll(func(ctx context.Context, req domain.Request) error {
		logger.Info("Unhandled request", "target_id", req.TargetID, "platform", req.TargetPlatform, "input", req.InputType())
		return nil
	}))

	if w.err != nil {
		return nil, w.err
	}
	return root, nil
}

type wrapper struct {
	opts Options
	err  error
}

// add pipes l through SanitizeText, the given transformers and then
// CatchError, with a dedicated error leaf per wrapped leaf.
func (w *wrapper) add(b *branch.Branch, name string, l leaf.Leaf, ts ...transform.Transformer) {
	if w.err != nil {
		return
	}
	chain := transform.NewChain().Pipe(transform.SanitizeText(w.opts.MaxInputSize))
	for _, t := range ts {
		chain.Pipe(t)
	}
	chain.Pipe(transform.CatchError(leaf.NewDefaultErrorLeaf(leaf.ErrorLeafOptions{
		FormatErrorMessage: FormatError,
		TrackError:         w.opts.TrackError,
	})))

	wrapped, err := chain.Transform(l)
	if err != nil {
		w.err = fmt.Errorf("failed to wrap leaf %s: %w", name, err)
		return
	}
	b.Leaf(name, wrapped)
}

// FormatError renders errors shown to users.
func FormatError(err error) string {
	return "Sorry, something went wrong: " + err.Error()
}

func greetingLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		switch in := req.Input.(type) {
		case domain.TextInput:
			switch strings.ToLower(strings.TrimSpace(in.Text)) {
			case "hi", "hello", "hey":
			default:
				return domain.NextFallthrough, nil
			}
		case domain.CommandInput:
			if in.Command != "start" {
				return domain.NextFallthrough, nil
			}
		case domain.JoinedChatInput:
		default:
			return domain.NextFallthrough, nil
		}
		return leaf.Reply(ctx, out, req, greeting())
	})
}

func greeting() domain.Content {
	return domain.Content{
		Type: domain.ContentText,
		Text: "Hello! Say **count**, `echo <text>` or /help.",
		QuickReplies: []domain.QuickReply{
			{Title: "Count", Payload: PostbackCount},
		},
	}
}

func counterLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		switch in := req.Input.(type) {
		case domain.TextInput:
			if !strings.EqualFold(strings.TrimSpace(in.Text), "count") {
				return domain.NextFallthrough, nil
			}
		case domain.PostbackInput:
			if in.Payload != PostbackCount {
				return domain.NextFallthrough, nil
			}
		default:
			return domain.NextFallthrough, nil
		}

		var c Counter
		if err := domain.DecodeContext(req.CurrentContext, &c); err != nil {
			return domain.NextInvalid, err
		}
		next := c.Count + 1

		resp := domain.ReplyTo(req, domain.TextContent(fmt.Sprintf("Count is now %d.", next)))
		resp.AdditionalContext = domain.Context{"count": next}
		return out.Next(ctx, resp)
	})
}

// milestoneLeaf reacts to context changes instead of user input.
func milestoneLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		if req.Type != domain.TriggerContext {
			return domain.NextFallthrough, nil
		}
		if _, changed := req.ChangedContext["count"]; !changed {
			return domain.NextFallthrough, nil
		}

		var c Counter
		if err := domain.DecodeContext(req.NewContext, &c); err != nil {
			return domain.NextInvalid, err
		}
		if c.Count == 0 || c.Count%MilestoneEvery != 0 {
			return domain.NextFallthrough, nil
		}
		return leaf.Reply(ctx, out, req, domain.TextContent(fmt.Sprintf("Milestone reached: %d!", c.Count)))
	})
}

func echoLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		in, ok := req.Input.(domain.TextInput)
		if !ok {
			return domain.NextFallthrough, nil
		}
		rest, found := strings.CutPrefix(in.Text, "echo ")
		if !found || strings.TrimSpace(rest) == "" {
			return domain.NextFallthrough, nil
		}
		return leaf.Reply(ctx, out, req, domain.TextContent(rest))
	})
}

func helpLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		in, ok := req.Input.(domain.CommandInput)
		if !ok || in.Command != "help" {
			return domain.NextFallthrough, nil
		}
		return leaf.Reply(ctx, out, req, domain.TextContent(strings.Join([]string{
			"Things I understand:",
			"- `hi` greets you",
			"- `count` increments your counter",
			"- `echo <text>` repeats text",
			"- `/crash` shows error handling",
		}, "\n")))
	})
}

func crashLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		in, ok := req.Input.(domain.CommandInput)
		if !ok || in.Command != "crash" {
			return domain.NextFallthrough, nil
		}
		return domain.NextInvalid, ErrCrash
	})
}

func intentLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		in, ok := req.Input.(domain.WitInput)
		if !ok || in.HighestConfidence == nil {
			return domain.NextFallthrough, nil
		}

		best := in.HighestConfidence
		if best.Kind == domain.WitConfidenceIntent && best.Name == "greeting" {
			return leaf.Reply(ctx, out, req, greeting())
		}

		subject := best.Name
		if best.Kind == domain.WitConfidenceTrait {
			subject = best.Name + "=" + best.Value
		}
		return leaf.Reply(ctx, out, req, domain.TextContent(fmt.Sprintf("I think you meant %s (%.0f%%).", subject, best.Confidence*100)))
	})
}

func sorryLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		if req.InputType() != domain.InputText {
			return domain.NextFallthrough, nil
		}
		return leaf.Reply(ctx, out, req, domain.TextContent("Sorry, I did not get that. Try /help."))
	})
}
