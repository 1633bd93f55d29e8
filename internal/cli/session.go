package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/orderbot/pkg/domain"
)

// SessionView is the printable form of a stored session.
type SessionView struct {
	UserID string           `json:"user_id"`
	State  domain.StateName `json:"state"`
	CartID string           `json:"cart_id,omitempty"`
	Cart   *domain.Cart     `json:"cart,omitempty"`
}

// ListSessions prints the ids of all stored sessions.
func ListSessions(ctx context.Context, app *App, w io.Writer) error {
	ids, err := app.Bot.Sessions().List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}
	fmt.Fprintln(w, "Active Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// InspectSession prints one session as JSON. With withCart the cart is fetched from
// the backend as well.
func InspectSession(ctx context.Context, app *App, userID string, withCart bool, w io.Writer) error {
	store := app.Bot.Sessions().Store()

	state, err := store.GetState(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("session '%s' not found", userID)
		}
		return err
	}
	view := SessionView{UserID: userID, State: state}

	cartID, ok, err := store.GetCartID(ctx, userID)
	if err != nil {
		return err
	}
	if ok {
		view.CartID = cartID
		if withCart {
			cart, err := app.Catalog.GetCart(ctx, cartID)
			if err != nil {
				return fmt.Errorf("fetch cart %s: %w", cartID, err)
			}
			view.Cart = &cart
		}
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes sessions. It continues past failures and reports them together.
func RemoveSessions(ctx context.Context, app *App, userIDs []string, w io.Writer) error {
	var errs []error
	for _, id := range userIDs {
		if err := app.Bot.Sessions().Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("remove '%s': %w", id, err))
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}

// ResetSession puts a user back at the start of the conversation.
func ResetSession(ctx context.Context, app *App, userID string, w io.Writer) error {
	if err := app.Bot.Sessions().Reset(ctx, userID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Session '%s' reset to %s\n", userID, domain.InitialState)
	return nil
}
