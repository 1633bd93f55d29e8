package telegram_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/orderbot/pkg/adapters/telegram"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/aretw0/orderbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// fakeContext overrides the tele.Context methods the adapter uses.
type fakeContext struct {
	tele.Context

	chat     *tele.Chat
	callback *tele.Callback
	text     string

	sent      []interface{}
	edited    []interface{}
	deleted   int
	responses []*tele.CallbackResponse
	sendErr   error
}

func (f *fakeContext) Chat() *tele.Chat         { return f.chat }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }
func (f *fakeContext) Text() string             { return f.text }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what)
	return f.sendErr
}

func (f *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	f.edited = append(f.edited, what)
	return nil
}

func (f *fakeContext) Delete() error {
	f.deleted++
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		f.responses = append(f.responses, nil)
		return nil
	}
	f.responses = append(f.responses, resp[0])
	return nil
}

func TestMarkup(t *testing.T) {
	assert.Nil(t, telegram.Markup(nil))

	m := telegram.Markup(domain.Keyboard{
		domain.Row("Salmon", "salmon"),
		{{Label: "A", Data: "a"}, {Label: "B", Data: "b"}},
	})
	require.NotNil(t, m)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, tele.InlineButton{Text: "Salmon", Data: "salmon"}, m.InlineKeyboard[0][0])
	assert.Len(t, m.InlineKeyboard[1], 2)
}

func TestEventFrom(t *testing.T) {
	chat := &tele.Chat{ID: 777}

	ev, ok := telegram.EventFrom(&fakeContext{chat: chat, text: "/start"})
	require.True(t, ok)
	assert.Equal(t, domain.Event{UserID: "777", Kind: domain.EventReset, Payload: "/start"}, ev)

	ev, ok = telegram.EventFrom(&fakeContext{chat: chat, text: "a@b.com"})
	require.True(t, ok)
	assert.Equal(t, domain.EventMessage, ev.Kind)

	ev, ok = telegram.EventFrom(&fakeContext{chat: chat, callback: &tele.Callback{Data: domain.TokenShowCart}})
	require.True(t, ok)
	assert.True(t, ev.IsCallback(domain.TokenShowCart))

	_, ok = telegram.EventFrom(&fakeContext{})
	assert.False(t, ok)
}

func TestEventFrom_StartVariants(t *testing.T) {
	chat := &tele.Chat{ID: 5}
	for _, text := range []string{"/start promo42", "/start@OrderBot", " /start@OrderBot promo "} {
		ev, ok := telegram.EventFrom(&fakeContext{chat: chat, text: text})
		require.True(t, ok)
		assert.Equal(t, domain.NewResetEvent("5"), ev, text)
	}

	for _, text := range []string{"/started", "please /start", "/startup@x"} {
		ev, _ := telegram.EventFrom(&fakeContext{chat: chat, text: text})
		assert.Equal(t, domain.EventMessage, ev.Kind, text)
	}
}

func TestMessenger_AnswersCallbackOnce(t *testing.T) {
	c := &fakeContext{chat: &tele.Chat{ID: 1}, callback: &tele.Callback{Data: "salmon"}}
	m := telegram.NewMessenger(c)

	err := m.Deliver(context.Background(), []domain.Reply{
		domain.Alert("Product added to cart"),
		domain.Delete(),
		domain.Ack(),
		domain.Send("Anything else?", domain.Keyboard{domain.Row("Back to menu", domain.TokenReturnToMenu)}),
	})
	require.NoError(t, err)

	require.Len(t, c.responses, 1)
	assert.True(t, c.responses[0].ShowAlert)
	assert.Equal(t, 1, c.deleted)
	assert.Equal(t, []interface{}{"Anything else?"}, c.sent)
}

func TestMessenger_AutoAck(t *testing.T) {
	c := &fakeContext{chat: &tele.Chat{ID: 1}, callback: &tele.Callback{Data: "x"}}

	require.NoError(t, telegram.NewMessenger(c).Deliver(context.Background(), []domain.Reply{
		domain.EditText("Please enter your email address", nil),
	}))
	assert.Len(t, c.responses, 1)
	assert.Equal(t, []interface{}{"Please enter your email address"}, c.edited)
}

func TestMessenger_EditPhotoReplacesMessage(t *testing.T) {
	c := &fakeContext{chat: &tele.Chat{ID: 1}, callback: &tele.Callback{Data: "salmon"}}

	require.NoError(t, telegram.NewMessenger(c).Deliver(context.Background(), []domain.Reply{
		domain.EditPhoto([]byte("jpeg"), "Salmon", nil),
	}))
	assert.Equal(t, 1, c.deleted)
	require.Len(t, c.sent, 1)
	p, ok := c.sent[0].(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "Salmon", p.Caption)
}

func TestMessenger_PlainMessageIgnoresCallbackReplies(t *testing.T) {
	c := &fakeContext{chat: &tele.Chat{ID: 1}, text: "hi"}

	require.NoError(t, telegram.NewMessenger(c).Deliver(context.Background(), []domain.Reply{
		domain.Ack(),
		domain.Delete(),
		domain.EditText("menu", nil),
	}))
	assert.Empty(t, c.responses)
	assert.Zero(t, c.deleted)
	assert.Equal(t, []interface{}{"menu"}, c.sent)
}

func TestMessenger_SendError(t *testing.T) {
	c := &fakeContext{chat: &tele.Chat{ID: 1}, text: "hi", sendErr: errors.New("forbidden")}

	err := telegram.NewMessenger(c).Deliver(context.Background(), []domain.Reply{domain.Send("menu", nil)})
	assert.ErrorContains(t, err, "forbidden")
}

var _ ports.Messenger = (*telegram.Messenger)(nil)
