/*
Package runner coordinates the processing of inbound chat events.

It is the bridge between the transports (Telegram, HTTP, console) and the conversation
state machine. For every event the Runner serializes on the user, loads the current
state, runs the matching handler, delivers the resulting replies and only then commits
the next state. A failed event leaves the stored state untouched.

# Usage

	r := runner.New(engine, sessions,
		runner.WithLogger(logger),
		runner.WithHooks(metrics.Hooks()),
	)

	err := r.Handle(ctx, domain.NewMessageEvent(chatID, text), messenger)
*/
package runner
