package transform

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/leaf"
)

// Transformer wraps a leaf to add behavior.
type Transformer func(l leaf.Leaf) (leaf.Leaf, error)

// Chain is an ordered list of transformers. It holds no other state and may be reused.
type Chain struct {
	transformers []Transformer
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Pipe appends a transformer and returns the chain for further piping.
func (c *Chain) Pipe(t Transformer) *Chain {
	c.transformers = append(c.transformers, t)
	return c
}

// Transform applies every transformer to l, in the order they were piped.
func (c *Chain) Transform(l leaf.Leaf) (leaf.Leaf, error) {
	current := l
	for i, t := range c.transformers {
		next, err := t(current)
		if err != nil {
			return nil, fmt.Errorf("transformer %d failed: %w", i, err)
		}
		current = next
	}
	return current, nil
}

// Compose merges several transformers into one, applied left to right.
func Compose(transformers ...Transformer) Transformer {
	return func(l leaf.Leaf) (leaf.Leaf, error) {
		return (&Chain{transformers: transformers}).Transform(l)
	}
}
