/*
Package orderbot is a conversational order-taking bot for a small shop.

A user browses a product catalog, adds products to a cart, removes items and checks
out by leaving an email address. Catalog, carts and client records live in a headless
CMS; the conversation state of every user lives in a key-value session store.

# Concept

Each user is always in exactly one conversation state. Every inbound event (a text
message, a button selection or the /start reset command) is handled by the function
registered for the current state, which returns the replies to render and the next
state. The next state is persisted only after the replies were delivered, so a failed
event leaves the conversation where it was.

# Usage

	bot, err := orderbot.New(catalog, store,
		orderbot.WithLogger(logger),
		orderbot.WithLifecycleHooks(metrics.Hooks()),
	)
	if err != nil {
		log.Fatal(err)
	}

	// From any transport:
	err = bot.Handle(ctx, domain.NewMessageEvent(chatID, text), messenger)

The telegram and http adapters under pkg/adapters are ready-made transports;
cmd/orderbot wires everything from configuration.
*/
package orderbot
