package domain

// ResetCommand is the literal text that restarts the conversation from any state.
const ResetCommand = "/start"

// MaxMessageLength is the longest text, in characters, a Telegram message can carry.
const MaxMessageLength = 4096

// Affordance tokens carried by callback events.
const (
	TokenShowCart     = "SHOW_CART"
	TokenReturnToMenu = "RETURN_TO_MENU"
	TokenRequestEmail = "REQUEST_EMAIL"
)
