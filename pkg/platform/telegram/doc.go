// Package telegram adapts Telegram Bot API updates and sends to arbor.
package telegram
