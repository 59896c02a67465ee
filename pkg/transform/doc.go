/*
Package transform provides higher-order wrappers that add cross-cutting behavior to leaves.

A Transformer takes a leaf and returns a new one. Transformers compose through a
Chain, applied left to right in the order they were piped:

	wrapped, err := transform.NewChain().
		Pipe(transform.CatchError(errorLeaf)).
		Pipe(transform.RetryWithWit(witClient)).
		Pipe(transform.CatchAll(onCatchAll)).
		Transform(base)

Each step receives the output of the previous one, so the last transformer piped is
the outermost wrapper.
*/
package transform
