/*
Package selector flattens a branch tree into candidate leaves and tries them in order.

Enumeration is depth-first: a node's leaves come before its sub-branches, and
siblings keep insertion order. The enumeration is computed once when the
Selector is built; later changes to the tree have no effect.

For every request the selector invokes candidates one at a time until one answers
BREAK. If none does, Next fails with domain.ErrNothingToSay, which means the bot
is missing a catch-all or error leaf.

The outputs of all leaves are merged into one stream that accepts exactly one
subscriber, normally a messenger.
*/
package selector
