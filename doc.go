/*
Package arbor is a chatbot toolkit built around a tree of leaves.

A leaf handles one kind of request and either answers it (BREAK) or declines it
(FALLTHROUGH). Leaves are grouped into branches, and a selector tries every leaf
of the tree in a fixed depth-first order until one of them answers. Platform
processors turn raw Facebook and Telegram payloads into requests and deliver the
responses leaves emit.

# Concept

  - Leaves are small and composable: transformers wrap them to add error
    routing, NLU retries, catch-alls or metrics without touching the leaf.
  - Conversation context is a free-form map persisted per target. Responses can
    add to it, and every change is fed back to the tree as a context trigger.
  - The selector is itself a leaf, so whole trees can be nested or transformed.

# Usage

	tree := branch.New().
		Leaf("hello", leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
			if req.InputType() != domain.InputText {
				return domain.NextFallthrough, nil
			}
			return leaf.Reply(ctx, out, req, domain.TextContent("Hello!"))
		}))

	client, err := telegram.NewBotClient(os.Getenv("TELEGRAM_TOKEN"), "")
	if err != nil {
		log.Fatal(err)
	}

	bot, err := arbor.New(ctx, tree,
		arbor.WithTelegram(client),
		arbor.WithContextDAO(session.NewManager(memory.NewStore())),
		arbor.WithTimeout(10*time.Second),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer bot.Close(ctx)

	// Feed webhook bodies to the bot, or mount pkg/adapters/http.
	err = bot.ProcessRawRequest(ctx, body)
*/
package arbor
