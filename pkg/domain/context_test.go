package domain_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_MergeIsShallowAndPure(t *testing.T) {
	old := domain.Context{"name": "ana", "prefs": map[string]any{"lang": "pt"}}
	add := domain.Context{"prefs": map[string]any{"tz": "UTC"}, "step": 2}

	merged := old.Merge(add)

	assert.Equal(t, domain.Context{"name": "ana", "prefs": map[string]any{"tz": "UTC"}, "step": 2}, merged)
	assert.Equal(t, domain.Context{"name": "ana", "prefs": map[string]any{"lang": "pt"}}, old)
	assert.Len(t, add, 2)
}

func TestContext_CloneNil(t *testing.T) {
	var c domain.Context
	clone := c.Clone()
	require.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestDecodeContext(t *testing.T) {
	type profile struct {
		Name  string `mapstructure:"name"`
		Age   int    `mapstructure:"age"`
		Admin bool   `mapstructure:"admin"`
	}

	var p profile
	err := domain.DecodeContext(domain.Context{"name": "ana", "age": "31", "admin": 1}, &p)
	require.NoError(t, err)
	assert.Equal(t, profile{Name: "ana", Age: 31, Admin: true}, p)
}

func TestDecodeContext_Mismatch(t *testing.T) {
	var p struct {
		Tags []string `mapstructure:"tags"`
	}
	err := domain.DecodeContext(domain.Context{"tags": map[string]any{"a": 1}}, &p)
	assert.Error(t, err)
}

func TestDecodeContext_Nil(t *testing.T) {
	var c struct {
		Count int `mapstructure:"count"`
	}
	require.NoError(t, domain.DecodeContext(nil, &c))
	assert.Zero(t, c.Count)
}
