package transform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCatchAll_PassesBreakThrough(t *testing.T) {
	calls := 0
	wrapped, err := transform.CatchAll(func(ctx context.Context, req domain.Request) error {
		calls++
		return nil
	})(newSpy(always(domain.NextBreak)))
	require.NoError(t, err)

	result, err := wrapped.Next(context.Background(), textRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, domain.NextBreak, result)
	assert.Zero(t, calls)
}

func TestCatchAll_IgnoresContextTriggers(t *testing.T) {
	calls := 0
	wrapped, _ := transform.CatchAll(func(ctx context.Context, req domain.Request) error {
		calls++
		return nil
	})(newSpy(always(domain.NextFallthrough)))

	req := domain.Request{Type: domain.TriggerContext, TargetID: "42", TargetPlatform: domain.PlatformFacebook}
	result, err := wrapped.Next(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.NextFallthrough, result)
	assert.Zero(t, calls)
}

func TestCatchAll_CallbackErrorPropagates(t *testing.T) {
	fail := errors.New("cannot reply")
	wrapped, _ := transform.CatchAll(func(ctx context.Context, req domain.Request) error {
		return fail
	})(newSpy(always(domain.NextFallthrough)))

	_, err := wrapped.Next(context.Background(), textRequest("hi"))
	assert.ErrorIs(t, err, fail)
}

func TestProperty_CatchAll_NeverFallsThrough(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		results := rapid.SliceOfN(rapid.SampledFrom([]domain.NextResult{domain.NextBreak, domain.NextFallthrough}), 1, 20).Draw(rt, "results")
		triggers := rapid.SliceOfN(rapid.SampledFrom([]domain.TriggerType{domain.TriggerMessage, domain.TriggerManual}), len(results), len(results)).Draw(rt, "triggers")

		i := 0
		inner := newSpy(func(domain.Request) (domain.NextResult, error) {
			r := results[i]
			i++
			return r, nil
		})

		calls := 0
		wrapped, err := transform.CatchAll(func(ctx context.Context, req domain.Request) error {
			calls++
			return nil
		})(inner)
		require.NoError(rt, err)

		fallthroughs := 0
		for j, r := range results {
			if r == domain.NextFallthrough {
				fallthroughs++
			}
			req := textRequest("hi")
			req.Type = triggers[j]
			got, err := wrapped.Next(context.Background(), req)
			require.NoError(rt, err)
			assert.Equal(rt, domain.NextBreak, got)
		}
		assert.Equal(rt, fallthroughs, calls, "callback runs once per inner fallthrough")
	})
}
