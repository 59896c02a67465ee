/*
Package branch provides the tree used to organize leaves into conversational flows.

A Branch holds named leaves and named sub-branches. Both keep insertion order,
which is the order a selector tries leaves in, so the tree is built with a small
fluent builder rather than Go maps:

	tree := branch.New().
		Leaf("greet", greetLeaf).
		Branch("orders", branch.New().
			Leaf("status", statusLeaf).
			Leaf("cancel", cancelLeaf)).
		Leaf("fallback", fallbackLeaf)

Leaves of a node are visited before its sub-branches, whatever order they were added in.
*/
package branch
