package messenger_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// fakeClient records payloads and typing toggles.
type fakeClient struct {
	mu      sync.Mutex
	sent    []any
	typing  []bool
	sendErr error
}

func (c *fakeClient) SendResponse(ctx context.Context, payload any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	c.sent = append(c.sent, payload)
	return "ok", nil
}

func (c *fakeClient) SetTypingIndicator(ctx context.Context, targetID string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing = append(c.typing, enabled)
	return nil
}

// rawMessage is the toy wire format used by these tests.
type rawMessage struct {
	UpdateID int      `json:"update_id"`
	Users    []string `json:"users"`
	Text     string   `json:"text"`
}

func generalize(ctx context.Context, raw []byte) ([]domain.Request, error) {
	var msg rawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	reqs := make([]domain.Request, 0, len(msg.Users))
	for _, u := range msg.Users {
		reqs = append(reqs, domain.NewMessageRequest(domain.Target{ID: u, Platform: domain.PlatformTelegram}, domain.TextInput{Text: msg.Text}))
	}
	return reqs, nil
}

func translate(resp domain.Response) ([]any, error) {
	out := make([]any, 0, len(resp.Output))
	for _, c := range resp.Output {
		out = append(out, resp.TargetID+":"+c.Text)
	}
	return out, nil
}

// fakeDAO is a map-backed context DAO.
type fakeDAO struct {
	mu       sync.Mutex
	contexts map[string]domain.Context
	appends  int
}

func newFakeDAO() *fakeDAO {
	return &fakeDAO{contexts: map[string]domain.Context{}}
}

func (d *fakeDAO) GetContext(ctx context.Context, target domain.Target) (domain.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[target.Key()].Clone(), nil
}

func (d *fakeDAO) AppendContext(ctx context.Context, target domain.Target, additional, old domain.Context) (ports.ContextChange, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.appends++
	if old == nil {
		old = d.contexts[target.Key()].Clone()
	}
	merged := old.Merge(additional)
	d.contexts[target.Key()] = merged
	return ports.ContextChange{OldContext: old, NewContext: merged.Clone()}, nil
}

func (d *fakeDAO) ResetContext(ctx context.Context, target domain.Target) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.contexts, target.Key())
	return nil
}
