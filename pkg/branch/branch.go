package branch

import (
	"github.com/aretw0/arbor/pkg/leaf"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Separator joins the path components of a leaf's full name.
const Separator = "."

// Branch is a node of the conversation tree.
type Branch struct {
	leaves      *orderedmap.OrderedMap[string, leaf.Leaf]
	subBranches *orderedmap.OrderedMap[string, *Branch]
}

// New creates an empty branch.
func New() *Branch {
	return &Branch{
		leaves:      orderedmap.New[string, leaf.Leaf](),
		subBranches: orderedmap.New[string, *Branch](),
	}
}

// Leaf adds a named leaf. Re-using a name replaces the leaf but keeps its position.
// A nil leaf is ignored.
func (b *Branch) Leaf(name string, l leaf.Leaf) *Branch {
	if l == nil {
		return b
	}
	b.leaves.Set(name, l)
	return b
}

// Branch adds a named sub-branch. Re-using a name replaces the sub-branch but keeps its position.
// A nil sub-branch is ignored.
func (b *Branch) Branch(name string, sub *Branch) *Branch {
	if sub == nil {
		return b
	}
	b.subBranches.Set(name, sub)
	return b
}

// Sub returns the named sub-branch, creating it if it does not exist.
func (b *Branch) Sub(name string) *Branch {
	if sub, ok := b.subBranches.Get(name); ok && sub != nil {
		return sub
	}
	sub := New()
	b.subBranches.Set(name, sub)
	return sub
}

// Each calls fn for every leaf of this node, in insertion order.
func (b *Branch) Each(fn func(name string, l leaf.Leaf)) {
	for pair := b.leaves.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// EachBranch calls fn for every sub-branch of this node, in insertion order.
func (b *Branch) EachBranch(fn func(name string, sub *Branch)) {
	for pair := b.subBranches.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// LeafCount returns the number of leaves directly under this node.
func (b *Branch) LeafCount() int {
	return b.leaves.Len()
}
