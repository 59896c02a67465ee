package selector_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/leaf"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/aretw0/arbor/pkg/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func noopLeaf() leaf.Leaf {
	return leaf.FromFunc(func(ctx context.Context, req domain.Request, out stream.Observer[domain.Response]) (domain.NextResult, error) {
		return domain.NextFallthrough, nil
	})
}

func fullNames(es []selector.Enumeration) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.FullName())
	}
	return out
}

func TestEnumerateLeaves_DepthFirstLeavesBeforeBranches(t *testing.T) {
	tree := branch.New().
		Branch("branch1", branch.New().
			Branch("branch12", branch.New().Leaf("leaf12", noopLeaf())).
			Leaf("leaf1", noopLeaf())).
		Leaf("root1", noopLeaf()).
		Branch("branch2", branch.New().Leaf("leaf2", noopLeaf())).
		Leaf("root2", noopLeaf())

	got := selector.EnumerateLeaves(tree)
	assert.Equal(t, []string{
		"root1",
		"root2",
		"branch1.leaf1",
		"branch1.branch12.leaf12",
		"branch2.leaf2",
	}, fullNames(got))

	require.Len(t, got, 5)
	assert.Equal(t, "leaf12", got[3].CurrentLeafName)
	assert.Equal(t, []string{"branch1", "branch12"}, got[3].PrefixLeafPaths)
	assert.Empty(t, got[0].PrefixLeafPaths)
	assert.Same(t, tree, got[0].ParentBranch)
}

func TestEnumerateLeaves_Empty(t *testing.T) {
	assert.Empty(t, selector.EnumerateLeaves(branch.New()))
	assert.Empty(t, selector.EnumerateLeaves(nil))
}

func TestEnumerateLeaves_IgnoresNilLeaves(t *testing.T) {
	tree := branch.New().
		Leaf("missing", nil).
		Leaf("present", noopLeaf()).
		Branch("empty", nil)

	got := selector.EnumerateLeaves(tree)
	assert.Equal(t, []string{"present"}, fullNames(got))

	result, err := selector.New(tree).Next(context.Background(),
		domain.NewMessageRequest(domain.Target{ID: "1", Platform: domain.PlatformTelegram}, domain.TextInput{Text: "hi"}))
	assert.ErrorIs(t, err, domain.ErrNothingToSay)
	assert.Equal(t, domain.NextInvalid, result)
}

func TestEnumerateLeaves_ReplacingKeepsPosition(t *testing.T) {
	first := noopLeaf()
	second := noopLeaf()
	tree := branch.New().Leaf("a", first).Leaf("b", noopLeaf()).Leaf("a", second)

	got := selector.EnumerateLeaves(tree)
	assert.Equal(t, []string{"a", "b"}, fullNames(got))
	assert.Same(t, second, got[0].CurrentLeaf)
}

// buildTree draws a random tree and returns the expected enumeration order.
func buildTree(rt *rapid.T, depth int, prefix string) (*branch.Branch, []string) {
	b := branch.New()
	var leaves, nested []string

	items := rapid.IntRange(0, 4).Draw(rt, "items"+prefix)
	for i := 0; i < items; i++ {
		if depth < 3 && rapid.Bool().Draw(rt, fmt.Sprintf("isBranch%s.%d", prefix, i)) {
			name := fmt.Sprintf("b%d", i)
			sub, subNames := buildTree(rt, depth+1, prefix+name+".")
			b.Branch(name, sub)
			nested = append(nested, subNames...)
			continue
		}
		name := fmt.Sprintf("l%d", i)
		b.Leaf(name, noopLeaf())
		leaves = append(leaves, prefix+name)
	}
	return b, append(leaves, nested...)
}

func TestProperty_EnumerateLeaves_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree, want := buildTree(rt, 0, "")

		first := fullNames(selector.EnumerateLeaves(tree))
		for i := 0; i < 3; i++ {
			assert.Equal(rt, first, fullNames(selector.EnumerateLeaves(tree)))
		}
		if len(want) == 0 {
			assert.Empty(rt, first)
			return
		}
		assert.Equal(rt, want, first)
	})
}
