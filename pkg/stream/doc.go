/*
Package stream provides the minimal broadcast primitives used to decouple
"a leaf decided to emit content" from "something delivers that content".

# Key Types

  - Subscription: idempotent unsubscribe handle.
  - Observer / Completer: the receiving side; completion is an optional capability.
  - Subject: a multi-observer broadcast point that delivers sequentially, in registration order.
  - Merge: subscribes one observer to many observables at once.
  - Bridge: turns "call Next, wait for the first emission" into a single blocking call.
*/
package stream
