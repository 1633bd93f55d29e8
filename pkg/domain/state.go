package domain

// StateName identifies a step of the conversation.
type StateName string

const (
	StateStart              StateName = "START"
	StateHandleMenu         StateName = "HANDLE_MENU"
	StateHandleDescription  StateName = "HANDLE_DESCRIPTION"
	StateHandleCart         StateName = "HANDLE_CART"
	StateHandleWaitingEmail StateName = "HANDLE_WAITING_EMAIL"
)

// InitialState is assigned to users without a recorded session.
const InitialState = StateStart

// KnownStates lists every state in table order.
func KnownStates() []StateName {
	return []StateName{
		StateStart,
		StateHandleMenu,
		StateHandleDescription,
		StateHandleCart,
		StateHandleWaitingEmail,
	}
}

// Valid reports whether s is one of the known states.
func (s StateName) Valid() bool {
	for _, known := range KnownStates() {
		if s == known {
			return true
		}
	}
	return false
}

func (s StateName) String() string {
	return string(s)
}

// Outcome is the result of handling one event: what to render and where to go next.
type Outcome struct {
	Replies []Reply
	Next    StateName
}
