package transform_test

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/stream"
)

// spyLeaf records every request and answers with respond.
type spyLeaf struct {
	leaf.Leaf
	requests []domain.Request
}

func newSpy(respond func(req domain.Request) (domain.NextResult, error)) *spyLeaf {
	s := &spyLeaf{}
	s.Leaf = leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		s.requests = append(s.requests, req)
		return respond(req)
	})
	return s
}

func always(result domain.NextResult) func(domain.Request) (domain.NextResult, error) {
	return func(domain.Request) (domain.NextResult, error) { return result, nil }
}

func textRequest(text string) domain.Request {
	req := domain.NewMessageRequest(domain.Target{ID: "42", Platform: domain.PlatformFacebook}, domain.TextInput{Text: text})
	req.CurrentLeafName = "leafA"
	return req
}

// fakeWit is an in-memory NLU client.
type fakeWit struct {
	calls    []string
	response domain.WitResponse
	err      error
}

func (f *fakeWit) Validate(ctx context.Context, text string) (domain.WitResponse, error) {
	f.calls = append(f.calls, text)
	return f.response, f.err
}
