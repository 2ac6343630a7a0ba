package repository

import (
	"context"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) ListProducts(ctx context.Context, category string) ([]entity.Product, error) {
	var products []entity.Product
	q := r.conn(ctx).Preload("Variants").Where("is_deleted = ?", false)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("id").Find(&products).Error
	return products, err
}

func (r *Repository) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := r.conn(ctx).Preload("Variants").Where("is_deleted = ?", false).First(&product, id).Error
	if err != nil {
		return nil, notFound(err, "product %d not found", id)
	}
	return &product, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *entity.Product) error {
	return r.conn(ctx).Create(product).Error
}

func (r *Repository) UpdateProduct(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.conn(ctx).Model(&entity.Product{}).Where("id = ? AND is_deleted = ?", id, false).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("product %d not found", id)
	}
	return nil
}

func (r *Repository) SoftDeleteProduct(ctx context.Context, id uint, now time.Time) error {
	return r.UpdateProduct(ctx, id, map[string]interface{}{"is_deleted": true, "deleted_at": now})
}

func (r *Repository) CreateVariant(ctx context.Context, variant *entity.Variant) error {
	return r.conn(ctx).Create(variant).Error
}

// GetVariant returns a variant whose product is still on the menu.
func (r *Repository) GetVariant(ctx context.Context, id uint) (*entity.Variant, error) {
	var variant entity.Variant
	err := r.conn(ctx).
		Joins("JOIN products ON products.id = variants.product_id AND products.is_deleted = ?", false).
		First(&variant, "variants.id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "variant %d not found", id)
	}
	return &variant, nil
}

func (r *Repository) UpdateVariant(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.conn(ctx).Model(&entity.Variant{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("variant %d not found", id)
	}
	return nil
}

func (r *Repository) ListAddons(ctx context.Context, onlyAvailable bool) ([]entity.Addon, error) {
	var addons []entity.Addon
	q := r.conn(ctx)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	err := q.Order("id").Find(&addons).Error
	return addons, err
}

// GetAddons loads every requested addon, failing with NotFound when any is
// missing or unavailable.
func (r *Repository) GetAddons(ctx context.Context, ids []uint) (map[uint]entity.Addon, error) {
	out := make(map[uint]entity.Addon, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var addons []entity.Addon
	if err := r.conn(ctx).Where("id IN ? AND is_available = ?", ids, true).Find(&addons).Error; err != nil {
		return nil, err
	}
	for _, a := range addons {
		out[a.ID] = a
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, apperror.NewNotFound("addon %d not found", id)
		}
	}
	return out, nil
}

func (r *Repository) CreateAddon(ctx context.Context, addon *entity.Addon) error {
	return r.conn(ctx).Create(addon).Error
}

func (r *Repository) UpdateAddon(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.conn(ctx).Model(&entity.Addon{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("addon %d not found", id)
	}
	return nil
}

func (r *Repository) ListStock(ctx context.Context) ([]entity.Stock, error) {
	var stock []entity.Stock
	err := r.conn(ctx).Order("variant_id").Find(&stock).Error
	return stock, err
}

func (r *Repository) GetStock(ctx context.Context, variantID uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.conn(ctx).Where("variant_id = ?", variantID).First(&stock).Error; err != nil {
		return nil, notFound(err, "stock for variant %d not found", variantID)
	}
	return &stock, nil
}

func (r *Repository) SetStock(ctx context.Context, variantID uint, quantity int) (*entity.Stock, error) {
	stock := entity.Stock{VariantID: variantID, Quantity: quantity}
	err := r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&stock).Error
	if err != nil {
		return nil, err
	}
	return r.GetStock(ctx, variantID)
}

// AdjustStock adds delta to a variant's stock, clamping at zero. Variants
// without a stock row are ignored.
func (r *Repository) AdjustStock(ctx context.Context, variantID uint, delta int) error {
	expr := gorm.Expr("CASE WHEN quantity + ? < 0 THEN 0 ELSE quantity + ? END", delta, delta)
	return r.conn(ctx).Model(&entity.Stock{}).Where("variant_id = ?", variantID).
		Updates(map[string]interface{}{"quantity": expr, "updated_at": time.Now()}).Error
}

func (r *Repository) CreateReview(ctx context.Context, review *entity.Review) error {
	return r.conn(ctx).Create(review).Error
}

func (r *Repository) ListReviews(ctx context.Context, productID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	q := r.conn(ctx)
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&reviews).Error
	return reviews, err
}

func (r *Repository) DeleteReview(ctx context.Context, id uint) error {
	res := r.conn(ctx).Delete(&entity.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("review %d not found", id)
	}
	return nil
}
