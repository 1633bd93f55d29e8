package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/orderbot/pkg/adapters/memory"
	"github.com/aretw0/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_AttachIsAdditive(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewDemoCatalog()

	cartID, err := cat.CreateCart(ctx, "u1")
	require.NoError(t, err)

	a, err := cat.CreateCartItem(ctx, cartID, "salmon")
	require.NoError(t, err)
	require.NoError(t, cat.AttachCartItems(ctx, cartID, []string{a}))

	b, err := cat.CreateCartItem(ctx, cartID, "trout")
	require.NoError(t, err)
	require.NoError(t, cat.AttachCartItems(ctx, cartID, []string{b}))

	cart, err := cat.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, a, cart.Items[0].ID)
	assert.Equal(t, b, cart.Items[1].ID)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, "Salmon", cart.Items[0].Product.Title)
}

func TestCatalog_RemoveLeavesOthers(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewDemoCatalog()

	cartID, _ := cat.CreateCart(ctx, "u1")
	a, _ := cat.CreateCartItem(ctx, cartID, "salmon")
	b, _ := cat.CreateCartItem(ctx, cartID, "shrimp")
	require.NoError(t, cat.AttachCartItems(ctx, cartID, []string{a, b}))

	require.NoError(t, cat.RemoveCartItem(ctx, a))

	cart, err := cat.GetCart(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b, cart.Items[0].ID)

	require.NoError(t, cat.RemoveCartItem(ctx, b))
	cart, err = cat.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCatalog_FindCartID(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewDemoCatalog()

	_, ok, err := cat.FindCartID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	first, _ := cat.CreateCart(ctx, "u1")
	_, _ = cat.CreateCart(ctx, "u1")

	found, ok, err := cat.FindCartID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, found)
}

func TestCatalog_FailOn(t *testing.T) {
	ctx := context.Background()
	cat := memory.NewDemoCatalog()
	boom := errors.New("boom")

	cat.FailOn("GetProduct", boom)
	_, err := cat.GetProduct(ctx, "salmon")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cat.Calls("GetProduct"))

	cat.FailOn("GetProduct", nil)
	p, err := cat.GetProduct(ctx, "salmon")
	require.NoError(t, err)
	assert.Equal(t, "Salmon", p.Title)

	_, err = cat.GetProduct(ctx, "whale")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
