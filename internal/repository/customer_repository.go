package repository

import (
	"context"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"gorm.io/gorm"
)

func (r *Repository) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	err := r.conn(ctx).Create(customer).Error
	if IsDuplicateKey(err) {
		return apperror.NewConflict("email %s already registered", customer.Email)
	}
	return err
}

func (r *Repository) GetCustomer(ctx context.Context, id uint) (*entity.Customer, error) {
	var customer entity.Customer
	if err := r.conn(ctx).First(&customer, id).Error; err != nil {
		return nil, notFound(err, "customer %d not found", id)
	}
	return &customer, nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.conn(ctx).Order("id").Find(&customers).Error
	return customers, err
}

// IncrementStamps adds n stamps in the store and returns the counter as it
// was before and after the increment.
func (r *Repository) IncrementStamps(ctx context.Context, id uint, n int) (before, after int, err error) {
	res := r.conn(ctx).Model(&entity.Customer{}).Where("id = ?", id).
		Update("current_stamps", gorm.Expr("current_stamps + ?", n))
	if res.Error != nil {
		return 0, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, 0, apperror.NewNotFound("customer %d not found", id)
	}
	customer, err := r.GetCustomer(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	return customer.CurrentStamps - n, customer.CurrentStamps, nil
}

func (r *Repository) ResetStamps(ctx context.Context, id uint) error {
	return r.conn(ctx).Model(&entity.Customer{}).Where("id = ?", id).Update("current_stamps", 0).Error
}
