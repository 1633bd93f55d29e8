package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aretw0/orderbot/pkg/domain"
	tele "gopkg.in/telebot.v4"
)

// Messenger renders replies in the context of one update.
// A callback is answered exactly once: the first Ack or Alert wins, and a callback
// left unanswered is acknowledged silently at the end of Deliver.
type Messenger struct {
	c        tele.Context
	answered bool
}

// NewMessenger binds a messenger to an update.
func NewMessenger(c tele.Context) *Messenger {
	return &Messenger{c: c}
}

// Deliver implements ports.Messenger.
func (m *Messenger) Deliver(ctx context.Context, replies []domain.Reply) error {
	for _, reply := range replies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.render(reply); err != nil {
			return fmt.Errorf("telegram %s: %w", reply.Kind, err)
		}
	}
	if m.c.Callback() != nil && !m.answered {
		m.answered = true
		return m.c.Respond()
	}
	return nil
}

func (m *Messenger) render(reply domain.Reply) error {
	markup := Markup(reply.Keyboard)
	origin := m.c.Callback() != nil

	switch reply.Kind {
	case domain.ReplySend:
		return m.send(reply.Text, markup)

	case domain.ReplySendPhoto:
		return m.send(photo(reply), markup)

	case domain.ReplyEditText:
		if !origin {
			return m.send(reply.Text, markup)
		}
		if markup == nil {
			return m.c.Edit(reply.Text)
		}
		return m.c.Edit(reply.Text, markup)

	case domain.ReplyEditPhoto:
		// Telegram cannot turn a text message into a media message.
		if origin {
			if err := m.c.Delete(); err != nil {
				return err
			}
		}
		return m.send(photo(reply), markup)

	case domain.ReplyDelete:
		if !origin {
			return nil
		}
		return m.c.Delete()

	case domain.ReplyAck, domain.ReplyAlert:
		if !origin || m.answered {
			return nil
		}
		m.answered = true
		if reply.Kind == domain.ReplyAck {
			return m.c.Respond()
		}
		return m.c.Respond(&tele.CallbackResponse{Text: reply.Text, ShowAlert: true})
	}
	return fmt.Errorf("unsupported reply kind %q", reply.Kind)
}

func (m *Messenger) send(what interface{}, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return m.c.Send(what)
	}
	return m.c.Send(what, markup)
}

func photo(reply domain.Reply) *tele.Photo {
	return &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(reply.Photo)),
		Caption: reply.Text,
	}
}
