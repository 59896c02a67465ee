package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.ContextStore
	patterns []*regexp.Regexp
}

// NewRedaction creates a middleware that masks, before saving, the values of
// context keys matching any of the patterns. Nested maps are masked too.
// Masked values are lost; loads return what was stored.
func NewRedaction(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.ContextStore) ports.ContextStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, key string, value domain.Context) error {
	masked := deepCopyMap(value)
	maskMap(masked, m.patterns)
	return m.next.Save(ctx, key, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, key string) (domain.Context, error) {
	return m.next.Load(ctx, key)
}

func (m *redactionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch sub := v.(type) {
		case map[string]any:
			out[k] = deepCopyMap(sub)
		case domain.Context:
			out[k] = deepCopyMap(sub)
		default:
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if matchesAny(k, patterns) {
			m[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
		}
	}
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
