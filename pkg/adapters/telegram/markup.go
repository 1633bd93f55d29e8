package telegram

import (
	"strconv"
	"strings"

	"github.com/aretw0/orderbot/pkg/domain"
	tele "gopkg.in/telebot.v4"
)

// Markup converts a keyboard into an inline reply markup. A nil or empty keyboard
// yields nil so that no markup is attached.
func Markup(kb domain.Keyboard) *tele.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Label, Data: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// EventFrom extracts a domain event from a telebot update context.
// ok is false for updates that carry no chat.
func EventFrom(c tele.Context) (ev domain.Event, ok bool) {
	chat := c.Chat()
	if chat == nil {
		return domain.Event{}, false
	}
	userID := strconv.FormatInt(chat.ID, 10)

	if cb := c.Callback(); cb != nil {
		return domain.NewCallbackEvent(userID, cb.Data), true
	}
	if isStartCommand(c.Text()) {
		return domain.NewResetEvent(userID), true
	}
	return domain.NewMessageEvent(userID, c.Text()), true
}

// isStartCommand matches "/start", "/start@SomeBot" and deep links like "/start promo42".
func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd := fields[0]
	return cmd == domain.ResetCommand || strings.HasPrefix(cmd, domain.ResetCommand+"@")
}
