package domain

// ReplyKind defines the render instruction the transport must perform.
type ReplyKind string

const (
	// ReplySend sends a new text message.
	ReplySend ReplyKind = "send"
	// ReplySendPhoto sends a new image message with Text as caption.
	ReplySendPhoto ReplyKind = "send_photo"
	// ReplyEditText replaces the message the event originated from with text.
	ReplyEditText ReplyKind = "edit_text"
	// ReplyEditPhoto replaces the originating message with an image and caption.
	ReplyEditPhoto ReplyKind = "edit_photo"
	// ReplyDelete removes the originating message.
	ReplyDelete ReplyKind = "delete"
	// ReplyAck acknowledges a callback without visible output.
	ReplyAck ReplyKind = "ack"
	// ReplyAlert acknowledges a callback with a popup notification.
	ReplyAlert ReplyKind = "alert"
)

// Button is a labeled selectable affordance. Data is delivered back as a callback payload.
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Keyboard groups buttons into rows.
type Keyboard [][]Button

// Row is a helper for single-button rows.
func Row(label, data string) []Button {
	return []Button{{Label: label, Data: data}}
}

// Reply is a single render instruction for the chat transport.
type Reply struct {
	Kind     ReplyKind `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Photo    []byte    `json:"photo,omitempty"`
	Keyboard Keyboard  `json:"keyboard,omitempty"`
}

// Send creates a text message reply.
func Send(text string, kb Keyboard) Reply {
	return Reply{Kind: ReplySend, Text: text, Keyboard: kb}
}

// EditText creates a reply replacing the originating message with text.
func EditText(text string, kb Keyboard) Reply {
	return Reply{Kind: ReplyEditText, Text: text, Keyboard: kb}
}

// EditPhoto creates a reply replacing the originating message with an image.
func EditPhoto(photo []byte, caption string, kb Keyboard) Reply {
	return Reply{Kind: ReplyEditPhoto, Photo: photo, Text: caption, Keyboard: kb}
}

// Delete creates a reply removing the originating message.
func Delete() Reply {
	return Reply{Kind: ReplyDelete}
}

// Ack creates a silent callback acknowledgement.
func Ack() Reply {
	return Reply{Kind: ReplyAck}
}

// Alert creates a callback acknowledgement shown as a popup.
func Alert(text string) Reply {
	return Reply{Kind: ReplyAlert, Text: text}
}
