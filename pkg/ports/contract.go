package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-user-" + time.Now().Format("20060102150405")

	t.Run("State Not Found", func(t *testing.T) {
		_, err := store.GetState(ctx, "missing-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Set and Get State", func(t *testing.T) {
		require.NoError(t, store.SetState(ctx, userID, domain.StateHandleMenu))

		state, err := store.GetState(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateHandleMenu, state)

		// Overwrite
		require.NoError(t, store.SetState(ctx, userID, domain.StateHandleCart))
		state, err = store.GetState(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateHandleCart, state)
	})

	t.Run("Cart ID Absent Is Not An Error", func(t *testing.T) {
		cartID, ok, err := store.GetCartID(ctx, "no-cart-"+userID)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, cartID)
	})

	t.Run("Set and Get Cart ID", func(t *testing.T) {
		require.NoError(t, store.SetCartID(ctx, userID, "cart-42"))

		cartID, ok, err := store.GetCartID(ctx, userID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "cart-42", cartID)
	})

	t.Run("Independent Keys", func(t *testing.T) {
		other := userID + "-independent"
		require.NoError(t, store.SetCartID(ctx, other, "cart-only"))

		_, err := store.GetState(ctx, other)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "cart id must not create a state")

		_ = store.Delete(ctx, other)
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		require.NoError(t, store.SetState(ctx, id1, domain.StateStart))
		require.NoError(t, store.SetState(ctx, id2, domain.StateHandleMenu))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		users, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, users, id1)
		assert.Contains(t, users, id2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, userID))

		_, err := store.GetState(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "GetState after Delete should return ErrSessionNotFound")

		_, ok, err := store.GetCartID(ctx, userID)
		require.NoError(t, err)
		assert.False(t, ok, "cart id should be removed by Delete")
	})
}
