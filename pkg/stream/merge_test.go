package stream_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_SubscribesToEverySource(t *testing.T) {
	ctx := context.Background()
	s1 := stream.NewSubject[int]()
	s2 := stream.NewSubject[int]()

	var got []int
	sub, err := stream.Merge[int](s1, s2).Subscribe(ctx, stream.ObserverFunc[int](func(ctx context.Context, v int) (domain.NextResult, error) {
		got = append(got, v)
		return domain.NextBreak, nil
	}))
	require.NoError(t, err)

	_, _ = s1.Next(ctx, 1)
	_, _ = s2.Next(ctx, 2)
	assert.Equal(t, []int{1, 2}, got)

	require.NoError(t, sub.Unsubscribe(ctx))
	_, _ = s1.Next(ctx, 3)
	_, _ = s2.Next(ctx, 4)
	assert.Equal(t, []int{1, 2}, got, "no delivery after unsubscribe")
}

// echo emits its input back through its own subject.
type echo struct {
	*stream.Subject[string]
	emit bool
}

func (e *echo) Next(ctx context.Context, in string) (domain.NextResult, error) {
	if !e.emit {
		return domain.NextFallthrough, nil
	}
	_, _ = e.Subject.Next(ctx, in+"!")
	_, _ = e.Subject.Next(ctx, "ignored")
	return domain.NextBreak, nil
}

func TestBridge_ReturnsFirstEmission(t *testing.T) {
	src := &echo{Subject: stream.NewSubject[string](), emit: true}

	out, err := stream.Bridge[string, string](src)(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestBridge_HonoursContextWhenNothingIsEmitted(t *testing.T) {
	src := &echo{Subject: stream.NewSubject[string]()}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := stream.Bridge[string, string](src)(ctx, "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
