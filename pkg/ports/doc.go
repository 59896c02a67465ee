/*
Package ports defines the driven ports (interfaces) of the Arbor pipeline.

These interfaces decouple leaf selection from external collaborators, so the same
bot can run against different persistence backends, NLU services and platforms.

# Key Interfaces

  - ContextDAO: get/append/reset conversation context keyed by target.
  - ContextStore: raw key-value persistence used to build a ContextDAO.
  - DistributedLocker: cross-replica locking for read-merge-write context updates.
  - NLUClient: natural language understanding (Wit) used by the retry transformer.
  - PlatformClient: delivery of platform-specific payloads and typing indicators.
*/
package ports
