/*
Package domain contains the core data model shared by every Arbor package.

It defines the messages that flow through the leaf-selection pipeline and is kept
free of I/O, following the same hexagonal split as the rest of the module.

# Key Entities

  - Request: an incoming trigger (message, manual or context) addressed to one conversation.
  - Input: the tagged union carried by message and manual triggers (text, command, image...).
  - Response: outgoing content for one conversation, optionally carrying context to persist.
  - NextResult: the BREAK / FALLTHROUGH signal returned by every leaf.
  - Context: opaque, bot-defined key-value state for one conversation.
*/
package domain
