package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"
	"coffee-shop/migrations"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, order *entity.Order, kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, kind+":"+order.OrderNumber)
	return nil
}

func (f *fakePublisher) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeBroadcaster) Broadcast(event string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeBroadcaster) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

// fixture is a migrated database with one customer, one product with a
// ₱120 variant and a ₱20 addon.
type fixture struct {
	db       *gorm.DB
	repo     *repository.Repository
	rdb      *redis.Client
	customer *entity.Customer
	product  *entity.Product
	variant  entity.Variant
	addon    *entity.Addon
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "service.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.AutoMigrate(0, db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{db: db, repo: repository.NewRepository(db), rdb: rdb}
	ctx := context.Background()

	f.customer = &entity.Customer{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, f.repo.CreateCustomer(ctx, f.customer))

	f.product = &entity.Product{
		Name:     "Caffe Latte",
		Category: "coffee",
		Variants: []entity.Variant{{ServingType: "HOT", Size: "12oz", Price: money("120")}},
	}
	require.NoError(t, f.repo.CreateProduct(ctx, f.product))
	f.variant = f.product.Variants[0]

	f.addon = &entity.Addon{Name: "Extra shot", Price: money("20"), IsAvailable: true}
	require.NoError(t, f.repo.CreateAddon(ctx, f.addon))
	return f
}

func (f *fixture) newCustomer(t *testing.T, email string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{Name: email, Email: email}
	require.NoError(t, f.repo.CreateCustomer(context.Background(), c))
	return c
}

func (f *fixture) newDiscount(t *testing.T, owner *uint, typ entity.DiscountType, value string) *entity.Discount {
	t.Helper()
	d := &entity.Discount{CustomerID: owner, Type: typ, Value: money(value)}
	require.NoError(t, f.repo.CreateDiscount(context.Background(), d))
	return d
}

func (f *fixture) orderService(pub EventPublisher, b Broadcaster, idem *Idempotency) *OrderService {
	s := NewOrderService(f.repo, pub, b, idem, time.UTC)
	s.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }
	return s
}
