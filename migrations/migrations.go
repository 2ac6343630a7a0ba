package migrations

import (
	"context"
	"errors"
	"time"

	"coffee-shop/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
var Models = []interface{}{
	&entity.Customer{},
	&entity.Product{},
	&entity.Variant{},
	&entity.Addon{},
	&entity.Stock{},
	&entity.Review{},
	&entity.Cart{},
	&entity.CartItem{},
	&entity.CartItemAddon{},
	&entity.Order{},
	&entity.OrderItem{},
	&entity.OrderItemAddon{},
	&entity.PaymentMethod{},
	&entity.DailyOrderSequence{},
	&entity.Discount{},
	&entity.LoyaltyProgram{},
	&entity.LoyaltyRewardTier{},
	&entity.Notification{},
}

// legacyOrderNumberIndex made order numbers unique across all days, which
// breaks the daily CH-0001 restart. AutoMigrate never drops indexes itself.
const legacyOrderNumberIndex = "idx_orders_order_number"

// AutoMigrate creates or updates all tables, retrying while the database
// is still starting up.
func AutoMigrate(retries int, db *gorm.DB) error {
	err := migrate(db)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		err = migrate(db)
	}
	return err
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	if db.Migrator().HasIndex(&entity.Order{}, legacyOrderNumberIndex) {
		return db.Migrator().DropIndex(&entity.Order{}, legacyOrderNumberIndex)
	}
	return nil
}

// SeedLoyaltyProgram creates the default stamp card when no program with
// that name exists yet: a free item at 10 stamps and 10% off at 5.
func SeedLoyaltyProgram(ctx context.Context, db *gorm.DB, name string) error {
	var existing entity.LoyaltyProgram
	err := db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	program := entity.LoyaltyProgram{
		Name:     name,
		IsActive: true,
		Tiers: []entity.LoyaltyRewardTier{
			{
				StampNumber:       5,
				RewardType:        entity.DiscountPercentageOff,
				RewardDescription: "10% off your next drink",
				DiscountAmount:    decimal.NewNullDecimal(decimal.NewFromInt(10)),
			},
			{
				StampNumber:       10,
				RewardType:        entity.DiscountFreeItem,
				RewardDescription: "One free drink",
			},
		},
	}
	return db.WithContext(ctx).Create(&program).Error
}
