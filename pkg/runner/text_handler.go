package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/orderbot/pkg/domain"
)

// ContentRenderer transforms message text before it is printed (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// TextHandler is a console transport: it prints replies as text with numbered
// buttons and turns typed lines into events. A number selects the matching button
// of the last keyboard; anything else is a free-text message.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// interactive is set when reading from an upgraded terminal, where EOF may be
	// produced by an interrupt and does not end the input.
	interactive bool

	mu      sync.Mutex
	buttons []domain.Button

	lines     chan lineResult
	startOnce sync.Once
}

type lineResult struct {
	text string
	err  error
}

// quitCommands end a chat session.
var quitCommands = map[string]bool{"q": true, "quit": true, "exit": true}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w}
	r, h.interactive = resolveInputReader(r)
	h.Reader = bufio.NewReader(r)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Deliver implements ports.Messenger.
func (h *TextHandler) Deliver(ctx context.Context, replies []domain.Reply) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, reply := range replies {
		switch reply.Kind {
		case domain.ReplyAck, domain.ReplyDelete:
			continue
		case domain.ReplyAlert:
			fmt.Fprintf(h.Writer, "[%s]\n", reply.Text)
			continue
		case domain.ReplySendPhoto, domain.ReplyEditPhoto:
			fmt.Fprintf(h.Writer, "[picture, %d bytes]\n", len(reply.Photo))
		}

		output := reply.Text
		if h.Renderer != nil {
			if rendered, err := h.Renderer(output); err == nil {
				output = rendered
			}
		}
		fmt.Fprintln(h.Writer, strings.TrimSpace(output))

		h.buttons = h.buttons[:0]
		for _, row := range reply.Keyboard {
			for _, b := range row {
				h.buttons = append(h.buttons, b)
				fmt.Fprintf(h.Writer, "  %d) %s\n", len(h.buttons), b.Label)
			}
		}
	}
	return nil
}

// Input waits for the next line and converts it to an event for userID.
// It returns ctx.Err() as soon as ctx is done, even while a read is pending,
// and io.EOF when the input ends or a quit command is typed.
func (h *TextHandler) Input(ctx context.Context, userID string) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	h.startOnce.Do(func() {
		h.lines = make(chan lineResult)
		go h.pump()
	})
	fmt.Fprint(h.Writer, "> ")

	var text string
	select {
	case <-ctx.Done():
		return domain.Event{}, ctx.Err()
	case res, ok := <-h.lines:
		if !ok {
			return domain.Event{}, io.EOF
		}
		if res.err != nil {
			return domain.Event{}, res.err
		}
		text = strings.TrimSpace(res.text)
	}
	if quitCommands[strings.ToLower(text)] {
		return domain.Event{}, io.EOF
	}

	if n, convErr := strconv.Atoi(text); convErr == nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		if n >= 1 && n <= len(h.buttons) {
			return domain.NewCallbackEvent(userID, h.buttons[n-1].Data), nil
		}
	}
	return domain.NewMessageEvent(userID, text), nil
}

// pump feeds lines to Input. It outlives a cancelled Input, so a line typed later is
// not lost to the next caller.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.lines <- lineResult{text: text}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			if h.interactive {
				// An interrupt on the console reads as EOF; cancellation reaches Input via ctx.
				time.Sleep(50 * time.Millisecond)
				continue
			}
			close(h.lines)
			return
		}
		h.lines <- lineResult{err: err}
		close(h.lines)
		return
	}
}

// resolveInputReader opens the platform terminal for r when r is one (CONIN$ on Windows),
// so that interrupts do not close the input stream.
func resolveInputReader(r io.Reader) (io.Reader, bool) {
	if upgraded, err := lifecycle.UpgradeTerminal(r); err == nil && upgraded != r {
		return upgraded, true
	}
	return r, false
}

// Chat runs an interactive conversation for userID until input ends or ctx is done.
// Event failures are reported to the user and do not stop the loop.
func (r *Runner) Chat(ctx context.Context, userID string, h *TextHandler) error {
	if err := r.Handle(ctx, domain.NewResetEvent(userID), h); err != nil {
		r.logger.Debug("initial event failed", "error", err)
	}
	for {
		ev, err := h.Input(ctx, userID)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ev.Payload == "" {
			continue
		}
		if err := r.Handle(ctx, ev, h); err != nil {
			r.logger.Debug("event failed", "error", err)
		}
	}
}
