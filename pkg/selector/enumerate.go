package selector

import (
	"strings"

	"github.com/aretw0/arbor/pkg/branch"
	"github.com/aretw0/arbor/pkg/leaf"
)

// Enumeration is the flattened position of one leaf in a branch tree.
type Enumeration struct {
	CurrentLeaf     leaf.Leaf
	CurrentLeafName string
	ParentBranch    *branch.Branch
	PrefixLeafPaths []string
}

// FullName joins the leaf's path components ("orders.cancel").
func (e Enumeration) FullName() string {
	return strings.Join(append(append([]string{}, e.PrefixLeafPaths...), e.CurrentLeafName), branch.Separator)
}

// EnumerateLeaves flattens b depth-first, leaves before sub-branches, in
// insertion order. It has no side effects.
func EnumerateLeaves(b *branch.Branch) []Enumeration {
	return enumerate(b, nil)
}

func enumerate(b *branch.Branch, prefix []string) []Enumeration {
	if b == nil {
		return nil
	}

	var out []Enumeration
	b.Each(func(name string, l leaf.Leaf) {
		out = append(out, Enumeration{
			CurrentLeaf:     l,
			CurrentLeafName: name,
			ParentBranch:    b,
			PrefixLeafPaths: append([]string{}, prefix...),
		})
	})
	b.EachBranch(func(name string, sub *branch.Branch) {
		out = append(out, enumerate(sub, append(append([]string{}, prefix...), name))...)
	})
	return out
}
