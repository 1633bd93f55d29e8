// Package telegram connects the coordinator to the Telegram Bot API using telebot.
//
// Chat ids are used as user identities. Text messages, the /start command and inline
// keyboard callbacks are turned into domain events; replies are rendered as messages,
// photos, edits and callback answers on the originating chat.
package telegram
