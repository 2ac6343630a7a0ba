package service

import (
	"context"
	"testing"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_GetCartWithoutActiveCart(t *testing.T) {
	f := newFixture(t)
	carts := NewCartService(f.repo)

	cart, err := carts.GetCart(context.Background(), f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CartStatusActive, cart.Status)
	assert.Empty(t, cart.Items)

	_, err = carts.GetCart(context.Background(), 424242)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCartService_AddItemMergesSameConfiguration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carts := NewCartService(f.repo)
	shot := []AddonSelection{{AddonID: f.addon.ID, Quantity: 1}}

	_, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1, Addons: shot})
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1, Addons: shot})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, 2, item.Quantity)
	require.Len(t, item.Addons, 1)
	assert.Equal(t, 2, item.Addons[0].Quantity)
	assert.Equal(t, "280.00", item.Price.StringFixed(2))

	cart, err = carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartService_LinePriceFollowsMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carts := NewCartService(f.repo)

	cart, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1})
	require.NoError(t, err)
	itemID := cart.Items[0].ID
	assert.Equal(t, "120.00", cart.Items[0].Price.StringFixed(2))

	require.NoError(t, f.repo.UpdateVariant(ctx, f.variant.ID, map[string]interface{}{"price": money("125")}))

	addons := []AddonSelection{{AddonID: f.addon.ID, Quantity: 2}}
	cart, err = carts.UpdateItem(ctx, f.customer.ID, itemID, UpdateCartItemInput{Quantity: 3, Addons: &addons})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "125.00", cart.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "415.00", cart.Items[0].Price.StringFixed(2))

	// Without addons in the request the current set is kept.
	cart, err = carts.UpdateItem(ctx, f.customer.ID, itemID, UpdateCartItemInput{Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "165.00", cart.Items[0].Price.StringFixed(2))

	_, err = carts.UpdateItem(ctx, f.customer.ID, itemID, UpdateCartItemInput{Quantity: 0})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = carts.UpdateItem(ctx, f.customer.ID, itemID+100, UpdateCartItemInput{Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCartService_UnknownVariantIsNotFound(t *testing.T) {
	f := newFixture(t)
	carts := NewCartService(f.repo)

	_, err := carts.AddItem(context.Background(), f.customer.ID, CartItemInput{VariantID: 777, Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCartService_DeletedProductCannotBeAdded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := NewCatalogService(f.repo, nil)
	carts := NewCartService(f.repo)

	require.NoError(t, catalog.DeleteProduct(ctx, f.product.ID))
	_, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCartService_AbandonCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carts := NewCartService(f.repo)

	first, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, carts.AbandonCart(ctx, f.customer.ID))
	assert.True(t, apperror.Is(carts.AbandonCart(ctx, f.customer.ID), apperror.KindNotFound))

	second, err := carts.AddItem(ctx, f.customer.ID, CartItemInput{VariantID: f.variant.ID, Quantity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
