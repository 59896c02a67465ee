/*
Package leaf defines the unit handler of the selection pipeline.

A Leaf receives requests through Next and answers BREAK or FALLTHROUGH. Output is
not returned from Next: leaves broadcast responses through their own stream, which
the selector merges and a messenger delivers. Leaves are built once and reused for
the life of the process.

Use Create (or FromFunc) to build leaves: it tags emitted responses with the
request that caused them, annotates errors with the leaf name, and closes the
stream on Complete.
*/
package leaf
