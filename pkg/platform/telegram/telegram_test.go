package telegram_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/messenger"
	"github.com/aretw0/arbor/pkg/platform/telegram"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/aretw0/arbor/pkg/stream"
	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.PlatformClient = (*telegram.Client)(nil)

func generalize(t *testing.T, raw string) []domain.Request {
	t.Helper()
	reqs, err := telegram.GeneralizeRequest(context.Background(), []byte(raw))
	require.NoError(t, err)
	return reqs
}

func TestGeneralizeRequest(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		target string
		want   []domain.Input
	}{
		{
			name:   "text",
			raw:    `{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"hello"}}`,
			target: "42",
			want:   []domain.Input{domain.TextInput{Text: "hello"}},
		},
		{
			name:   "command",
			raw:    `{"update_id":2,"message":{"message_id":2,"date":0,"chat":{"id":42,"type":"private"},"text":"/order@arbor_bot pizza 2"}}`,
			target: "42",
			want:   []domain.Input{domain.CommandInput{Command: "order", Args: []string{"pizza", "2"}}},
		},
		{
			name:   "photo keeps largest size",
			raw:    `{"update_id":3,"message":{"message_id":3,"date":0,"chat":{"id":-7,"type":"group"},"photo":[{"file_id":"small","file_unique_id":"s","width":1,"height":1},{"file_id":"big","file_unique_id":"b","width":9,"height":9}]}}`,
			target: "-7",
			want:   []domain.Input{domain.ImageInput{FileID: "big"}},
		},
		{
			name:   "document",
			raw:    `{"update_id":4,"message":{"message_id":4,"date":0,"chat":{"id":42,"type":"private"},"document":{"file_id":"doc","file_unique_id":"d","file_name":"menu.pdf"}}}`,
			target: "42",
			want:   []domain.Input{domain.DocumentInput{FileID: "doc", FileName: "menu.pdf"}},
		},
		{
			name:   "location",
			raw:    `{"update_id":5,"message":{"message_id":5,"date":0,"chat":{"id":42,"type":"private"},"location":{"latitude":1.5,"longitude":2.5}}}`,
			target: "42",
			want:   []domain.Input{domain.LocationInput{Latitude: 1.5, Longitude: 2.5}},
		},
		{
			name:   "joined and left",
			raw:    `{"update_id":6,"message":{"message_id":6,"date":0,"chat":{"id":-7,"type":"group"},"new_chat_members":[{"id":1,"is_bot":false,"first_name":"a"}]}}`,
			target: "-7",
			want:   []domain.Input{domain.JoinedChatInput{}},
		},
		{
			name:   "callback",
			raw:    `{"update_id":7,"callback_query":{"id":"cb","from":{"id":99,"is_bot":false,"first_name":"a"},"chat_instance":"x","data":"YES"}}`,
			target: "99",
			want:   []domain.Input{domain.PostbackInput{Payload: "YES"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := generalize(t, tt.raw)
			var got []domain.Input
			for _, r := range reqs {
				assert.Equal(t, tt.target, r.TargetID)
				assert.Equal(t, domain.PlatformTelegram, r.TargetPlatform)
				got = append(got, r.Input)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneralizeRequest_IgnoresOtherUpdates(t *testing.T) {
	assert.Empty(t, generalize(t, `{"update_id":8,"edited_message":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"text":"x"}}`))

	_, err := telegram.GeneralizeRequest(context.Background(), []byte(`[`))
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, domain.CommandInput{Command: "start", Args: []string{}}, telegram.ParseCommand("/start"))
	assert.Equal(t, domain.CommandInput{}, telegram.ParseCommand("/"))
}

// fakeBot records what would have been sent.
type fakeBot struct {
	messages []*telego.SendMessageParams
	photos   []*telego.SendPhotoParams
	actions  []*telego.SendChatActionParams
}

func (b *fakeBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	b.messages = append(b.messages, params)
	return &telego.Message{MessageID: len(b.messages)}, nil
}

func (b *fakeBot) SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error) {
	b.photos = append(b.photos, params)
	return &telego.Message{MessageID: 100 + len(b.photos)}, nil
}

func (b *fakeBot) SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error {
	b.actions = append(b.actions, params)
	return nil
}

func TestTranslateAndSend(t *testing.T) {
	resp := domain.Response{
		TargetID:       "42",
		TargetPlatform: domain.PlatformTelegram,
		Output: []domain.Content{
			{Type: domain.ContentText, Text: "Pick", QuickReplies: []domain.QuickReply{{Title: "Yes", Payload: "YES"}}},
			{Type: domain.ContentImage, URL: "https://x/cat.png", Text: "a cat"},
		},
	}
	payloads, err := telegram.Translate(resp)
	require.NoError(t, err)
	require.Len(t, payloads, 2)

	bot := &fakeBot{}
	client := telegram.NewClient(bot)
	for _, p := range payloads {
		_, err := client.SendResponse(context.Background(), p)
		require.NoError(t, err)
	}

	require.Len(t, bot.messages, 1)
	assert.Equal(t, "Pick", bot.messages[0].Text)
	assert.Equal(t, int64(42), bot.messages[0].ChatID.ID)
	markup, ok := bot.messages[0].ReplyMarkup.(*telego.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "YES", markup.InlineKeyboard[0][0].CallbackData)

	require.Len(t, bot.photos, 1)
	assert.Equal(t, "a cat", bot.photos[0].Caption)

	_, err = client.SendResponse(context.Background(), "not a payload")
	assert.Error(t, err)
}

func TestTranslate_InvalidChatID(t *testing.T) {
	_, err := telegram.Translate(domain.Response{TargetID: "abc"})
	assert.Error(t, err)
}

func TestClient_TypingIndicator(t *testing.T) {
	bot := &fakeBot{}
	client := telegram.NewClient(bot)

	require.NoError(t, client.SetTypingIndicator(context.Background(), "42", true))
	require.NoError(t, client.SetTypingIndicator(context.Background(), "42", false))

	require.Len(t, bot.actions, 1)
	assert.Equal(t, telego.ChatActionTyping, bot.actions[0].Action)
}

func TestProcessor_InjectsStoredContext(t *testing.T) {
	ctx := context.Background()
	dao := session.NewManager(memory.NewStore())
	target := domain.Target{ID: "42", Platform: domain.PlatformTelegram}
	_, err := dao.AppendContext(ctx, target, domain.Context{"count": 7}, nil)
	require.NoError(t, err)

	var seen []domain.Context
	recorder := leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		seen = append(seen, req.CurrentContext)
		return domain.NextBreak, nil
	})
	proc, err := telegram.NewProcessor(selector.New(branch.New().Leaf("recorder", recorder)), telegram.NewClient(nil),
		messenger.InjectContextOnReceive(dao),
	)
	require.NoError(t, err)

	raw := []byte(`{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"x"}}`)
	require.NoError(t, messenger.ProcessRaw(ctx, proc, raw))

	require.Len(t, seen, 1)
	assert.Equal(t, domain.Context{"count": 7}, seen[0])
}

func TestProcessor_KeepsSuppliedContext(t *testing.T) {
	ctx := context.Background()
	dao := session.NewManager(memory.NewStore())
	_, err := dao.AppendContext(ctx, domain.Target{ID: "42", Platform: domain.PlatformTelegram}, domain.Context{"count": 7}, nil)
	require.NoError(t, err)

	var seen domain.Context
	recorder := leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		seen = req.CurrentContext
		return domain.NextBreak, nil
	})
	proc, err := telegram.NewProcessor(selector.New(branch.New().Leaf("recorder", recorder)), telegram.NewClient(nil),
		messenger.InjectContextOnReceive(dao),
	)
	require.NoError(t, err)

	req := generalize(t, `{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"text":"x"}}`)[0]
	req.CurrentContext = domain.Context{"count": 1}
	require.NoError(t, proc.ReceiveRequest(ctx, req))
	assert.Equal(t, domain.Context{"count": 1}, seen)
}
