package transform_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapInput(t *testing.T) {
	inner := newSpy(always(domain.NextBreak))
	wrapped, _ := transform.MapInput(func(ctx context.Context, in domain.Input) (domain.Input, error) {
		if text, ok := in.(domain.TextInput); ok {
			return domain.TextInput{Text: strings.ToLower(text.Text)}, nil
		}
		return in, nil
	})(inner)

	_, err := wrapped.Next(context.Background(), textRequest("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, domain.TextInput{Text: "hello"}, inner.requests[0].Input)
}

func TestMapContext(t *testing.T) {
	inner := newSpy(always(domain.NextBreak))
	wrapped, _ := transform.MapContext(func(ctx context.Context, c domain.Context) (domain.Context, error) {
		return c.Merge(domain.Context{"locale": "en"}), nil
	})(inner)

	_, err := wrapped.Next(context.Background(), textRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "en", inner.requests[0].CurrentContext["locale"])
}

func TestMapRequest_Error(t *testing.T) {
	fail := errors.New("nope")
	inner := newSpy(always(domain.NextBreak))
	wrapped, _ := transform.MapRequest(func(ctx context.Context, req domain.Request) (domain.Request, error) {
		return req, fail
	})(inner)

	_, err := wrapped.Next(context.Background(), textRequest("hi"))
	assert.ErrorIs(t, err, fail)
	assert.Empty(t, inner.requests)
}

func TestRequireInputTypes(t *testing.T) {
	inner := newSpy(always(domain.NextBreak))
	wrapped, _ := transform.RequireInputTypes(domain.InputImage, domain.InputDocument)(inner)

	result, err := wrapped.Next(context.Background(), textRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, domain.NextFallthrough, result)

	req := textRequest("")
	req.Input = domain.ImageInput{URL: "https://example.com/cat.png"}
	result, err = wrapped.Next(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.NextBreak, result)
	assert.Len(t, inner.requests, 1)
}
