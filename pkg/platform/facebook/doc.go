// Package facebook adapts Facebook Messenger webhooks and the Send API to arbor.
package facebook
