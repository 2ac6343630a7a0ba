package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/migrations"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.AutoMigrate(0, db))
	return NewRepository(db)
}

func TestNextOrderSequence_PerDayCounter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.NextOrderSequence(ctx, "2026-10-15")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := repo.NextOrderSequence(ctx, "2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNextOrderSequence_ConcurrentTransactionsNeverShareValue(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithTx(ctx, func(tx *Repository) error {
				v, err := tx.NextOrderSequence(ctx, "2026-10-15")
				if err != nil {
					return err
				}
				mu.Lock()
				seen[v] = true
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers)
}

func TestRedeemDiscount_OnlyOnce(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	d := entity.Discount{Type: entity.DiscountFreeItem, Description: "free drink"}
	require.NoError(t, repo.CreateDiscount(ctx, &d))

	ok, err := repo.RedeemDiscount(ctx, d.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.RedeemDiscount(ctx, d.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetDiscount(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRedeemed)
	assert.NotNil(t, got.UsedAt)
}

func TestActiveCart_OnePerCustomer(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	c := entity.Customer{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, repo.CreateCustomer(ctx, &c))

	cart, err := repo.CreateActiveCart(ctx, c.ID)
	require.NoError(t, err)

	_, err = repo.CreateActiveCart(ctx, c.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	require.NoError(t, repo.CloseCart(ctx, cart.ID, entity.CartStatusCheckedOut))
	_, err = repo.GetActiveCart(ctx, c.ID, false)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = repo.CreateActiveCart(ctx, c.ID)
	assert.NoError(t, err)
}

func TestIncrementStamps(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, _, err := repo.IncrementStamps(ctx, 42, 1)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	c := entity.Customer{Name: "Ben", Email: "ben@example.com"}
	require.NoError(t, repo.CreateCustomer(ctx, &c))
	before, after, err := repo.IncrementStamps(ctx, c.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, before)
	assert.Equal(t, 3, after)
}

func TestStockAdjustClampsAtZero(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.SetStock(ctx, 7, 5)
	require.NoError(t, err)
	stock, err := repo.SetStock(ctx, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Quantity)

	require.NoError(t, repo.AdjustStock(ctx, 7, -10))
	stock, err = repo.GetStock(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)
}

func TestGetVariant_HidesDeletedProducts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := entity.Product{Name: "Latte", Variants: []entity.Variant{{Size: "12oz", Price: decimal.NewFromInt(120)}}}
	require.NoError(t, repo.CreateProduct(ctx, &p))
	v, err := repo.GetVariant(ctx, p.Variants[0].ID)
	require.NoError(t, err)
	assert.True(t, v.Price.Equal(decimal.NewFromInt(120)))

	require.NoError(t, repo.SoftDeleteProduct(ctx, p.ID, time.Now()))
	_, err = repo.GetVariant(ctx, p.Variants[0].ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
