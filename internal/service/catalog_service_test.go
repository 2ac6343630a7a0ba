package service

import (
	"context"
	"testing"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_MenuCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.repo, f.rdb)

	menu, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, menu, 1)

	ttl, err := f.rdb.TTL(ctx, menuCacheKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Seconds(), 0.0)

	// Writes behind the service's back stay invisible until the cache is dropped.
	require.NoError(t, f.repo.CreateProduct(ctx, &entity.Product{Name: "Matcha", Category: "tea"}))
	menu, err = svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, menu, 1)

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Cold Brew", Category: "coffee", Variants: []VariantInput{{Size: "16oz", Price: money("150")}}})
	require.NoError(t, err)
	exists, err := f.rdb.Exists(ctx, menuCacheKey).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	menu, err = svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, menu, 3)

	coffee, err := svc.ListProducts(ctx, "COFFEE")
	require.NoError(t, err)
	assert.Len(t, coffee, 2)
}

func TestCatalogService_ProductLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.repo, f.rdb)

	_, err := svc.CreateProduct(ctx, ProductInput{})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = svc.CreateProduct(ctx, ProductInput{Name: "Bad", Variants: []VariantInput{{Price: money("-1")}}})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	name := "Flat White"
	updated, err := svc.UpdateProduct(ctx, f.product.ID, ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Flat White", updated.Name)

	variant, err := svc.AddVariant(ctx, f.product.ID, VariantInput{ServingType: "ICED", Size: "16oz", Price: money("140")})
	require.NoError(t, err)
	assert.NotZero(t, variant.ID)

	require.NoError(t, svc.DeleteProduct(ctx, f.product.ID))
	_, err = svc.GetProduct(ctx, f.product.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.AddVariant(ctx, f.product.ID, VariantInput{Price: money("1")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	menu, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, menu)
}

func TestCatalogService_Addons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.repo, nil)

	oat, err := svc.CreateAddon(ctx, AddonInput{Name: "Oat milk", Price: money("25")})
	require.NoError(t, err)
	assert.True(t, oat.IsAvailable)

	require.NoError(t, svc.DisableAddon(ctx, oat.ID))
	available, err := svc.ListAddons(ctx, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, f.addon.ID, available[0].ID)

	all, err := svc.ListAddons(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	price := money("-5")
	assert.True(t, apperror.Is(svc.UpdateAddon(ctx, oat.ID, AddonUpdate{Price: &price}), apperror.KindValidation))
	assert.True(t, apperror.Is(svc.UpdateAddon(ctx, oat.ID, AddonUpdate{}), apperror.KindValidation))
}

func TestInventoryService_ApplyOrderEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewInventoryService(f.repo)

	_, err := svc.SetStock(ctx, f.variant.ID, 5)
	require.NoError(t, err)
	_, err = svc.SetStock(ctx, f.variant.ID, -1)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = svc.SetStock(ctx, 999, 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	order := entity.Order{OrderNumber: "CH-0001", Items: []entity.OrderItem{{VariantID: f.variant.ID, Quantity: 3}}}
	require.NoError(t, svc.ApplyOrderEvent(ctx, entity.OrderEvent{Type: OrderEventCreated, Order: order}))
	stock, err := svc.GetStock(ctx, f.variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Quantity)

	require.NoError(t, svc.ApplyOrderEvent(ctx, entity.OrderEvent{Type: OrderEventCreated, Order: order}))
	stock, err = svc.GetStock(ctx, f.variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)

	require.NoError(t, svc.ApplyOrderEvent(ctx, entity.OrderEvent{Type: OrderEventCancelled, Order: order}))
	require.NoError(t, svc.ApplyOrderEvent(ctx, entity.OrderEvent{Type: OrderEventUpdated, Order: order}))
	stock, err = svc.GetStock(ctx, f.variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Quantity)
}

func TestReviewService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReviewService(f.repo)

	_, err := svc.CreateReview(ctx, ReviewInput{CustomerID: f.customer.ID, ProductID: f.product.ID, Rating: 6})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = svc.CreateReview(ctx, ReviewInput{CustomerID: f.customer.ID, ProductID: 999, Rating: 5})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	review, err := svc.CreateReview(ctx, ReviewInput{CustomerID: f.customer.ID, ProductID: f.product.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)

	reviews, err := svc.ListReviews(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	require.NoError(t, svc.DeleteReview(ctx, review.ID))
	assert.True(t, apperror.Is(svc.DeleteReview(ctx, review.ID), apperror.KindNotFound))
}

func TestCustomerService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCustomerService(f.repo)

	c, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Eli", Email: "Eli@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "eli@example.com", c.Email)

	_, err = svc.CreateCustomer(ctx, CustomerInput{Name: "Eli again", Email: "eli@example.com"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	_, err = svc.CreateCustomer(ctx, CustomerInput{Name: "No mail", Email: "nope"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDiscountService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewDiscountService(f.repo)

	_, err := svc.CreateDiscount(ctx, DiscountInput{Type: "PERCENTAGE_OFF", Value: money("120")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = svc.CreateDiscount(ctx, DiscountInput{Type: "CASHBACK", Value: money("1")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	missing := uint(999)
	_, err = svc.CreateDiscount(ctx, DiscountInput{CustomerID: &missing, Type: "FREE_ITEM"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	general, err := svc.CreateDiscount(ctx, DiscountInput{Type: "fixed_amount", Value: money("15"), Description: "Opening week"})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountFixedAmount, general.Type)

	list, err := svc.ListDiscounts(ctx, nil, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := svc.GetDiscount(ctx, general.ID)
	require.NoError(t, err)
	assert.Equal(t, "Opening week", got.Description)
}
