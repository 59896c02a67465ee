// Package messenger connects a selector to messaging platforms.
//
// A Processor turns raw webhook bodies into requests, feeds them to the
// selector and delivers the selector's responses through a platform client.
// Middleware wraps a Processor to add context persistence, typing indicators,
// throttling and metrics. A Messenger owns the selector's single subscription.
package messenger
