package messenger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/messenger"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/aretw0/arbor/pkg/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const oneMessage = `{"update_id":1,"users":["u1"],"text":"remember"}`

// counterLeaf stores a counter in the context and reports context triggers.
func counterLeaf(triggers *[]domain.Request) leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		if req.Type == domain.TriggerContext {
			*triggers = append(*triggers, req)
			return leaf.Reply(ctx, out, req, domain.TextContent("noted"))
		}

		var state struct {
			Count int `mapstructure:"count"`
		}
		if err := domain.DecodeContext(req.CurrentContext, &state); err != nil {
			return domain.NextInvalid, err
		}

		resp := domain.ReplyTo(req, domain.TextContent("count"))
		resp.AdditionalContext = domain.Context{"count": state.Count + 1}
		return out.Next(ctx, resp)
	})
}

func TestContextMiddleware_RoundTrip(t *testing.T) {
	dao := newFakeDAO()
	var triggers []domain.Request
	sel := selector.New(branch.New().Leaf("counter", counterLeaf(&triggers)))
	client := &fakeClient{}

	proc, err := messenger.NewProcessor(messenger.Config{
		Platform:   domain.PlatformTelegram,
		Selector:   sel,
		Client:     client,
		Generalize: generalize,
		Translate:  translate,
	},
		messenger.SaveContextOnSend(dao, messenger.WithContextTrigger(sel)),
		messenger.InjectContextOnReceive(dao),
	)
	require.NoError(t, err)

	m, err := messenger.New(context.Background(), sel, proc)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.ProcessRawRequest(context.Background(), []byte(oneMessage)))
	}

	stored, err := dao.GetContext(context.Background(), domain.Target{ID: "u1", Platform: domain.PlatformTelegram})
	require.NoError(t, err)
	assert.Equal(t, domain.Context{"count": 3}, stored)

	require.Len(t, triggers, 3)
	last := triggers[2]
	assert.Equal(t, domain.Context{"count": 2}, last.OldContext)
	assert.Equal(t, domain.Context{"count": 3}, last.NewContext)
	assert.Equal(t, domain.Context{"count": 3}, last.ChangedContext)

	// Each message sends the reply and the context trigger's reply; the latter must not loop.
	assert.Len(t, client.sent, 6)
	assert.Equal(t, 3, dao.appends)
}

func TestSaveContextOnSend_SkipsAfterCancel(t *testing.T) {
	dao := newFakeDAO()
	client := &fakeClient{}
	proc, err := messenger.NewProcessor(messenger.Config{
		Platform:   domain.PlatformTelegram,
		Selector:   selector.New(branch.New()),
		Client:     client,
		Generalize: generalize,
		Translate:  translate,
	}, messenger.SaveContextOnSend(dao))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := domain.Response{TargetID: "u1", TargetPlatform: domain.PlatformTelegram, AdditionalContext: domain.Context{"a": 1}}
	_, err = proc.SendResponse(ctx, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dao.appends)
}

func TestSetTypingIndicator_WrapsSend(t *testing.T) {
	_, proc, client := newSetup(t, echoLeaf())
	proc = messenger.SetTypingIndicator(client, nil)(proc)

	_, err := proc.SendResponse(context.Background(), domain.Response{
		TargetID:       "u1",
		TargetPlatform: domain.PlatformTelegram,
		Output:         []domain.Content{domain.TextContent("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, client.typing)
	assert.Equal(t, []any{"u1:hi"}, client.sent)
}

func TestThrottleSend_RespectsContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	_, proc, client := newSetup(t, echoLeaf(), messenger.ThrottleSend(limiter))

	resp := domain.Response{TargetID: "u1", TargetPlatform: domain.PlatformTelegram, Output: []domain.Content{domain.TextContent("a")}}
	_, err := proc.SendResponse(context.Background(), resp)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = proc.SendResponse(ctx, resp)
	assert.Error(t, err)
	assert.Len(t, client.sent, 1)
}

func TestCountSent(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, proc, _ := newSetup(t, echoLeaf(), messenger.CountSent(observability.NewMetrics(reg)))

	resp := domain.Response{TargetID: "u1", TargetPlatform: domain.PlatformTelegram}
	_, err := proc.SendResponse(context.Background(), resp)
	require.NoError(t, err)

	expected := `
# HELP arbor_responses_sent_total Responses delivered to a platform
# TYPE arbor_responses_sent_total counter
arbor_responses_sent_total{platform="telegram"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "arbor_responses_sent_total"))
}
