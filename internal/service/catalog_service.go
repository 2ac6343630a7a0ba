package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

const (
	menuCacheKey = "menu:all"
	menuCacheTTL = 10 * time.Minute
)

// CatalogService manages the menu: products, their variants and addons.
// The full product list is cached in Redis and dropped on every write.
type CatalogService struct {
	repo *repository.Repository
	rdb  *redis.Client
	now  func() time.Time
}

// NewCatalogService creates a new instance of CatalogService. rdb may be
// nil, in which case the menu is always read from the database.
func NewCatalogService(repo *repository.Repository, rdb *redis.Client) *CatalogService {
	return &CatalogService{repo: repo, rdb: rdb, now: time.Now}
}

type VariantInput struct {
	ServingType string          `json:"serving_type"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
}

type ProductInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	ImageURL    string         `json:"image_url"`
	Variants    []VariantInput `json:"variants"`
}

type ProductUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
}

type AddonInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddonUpdate struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

// ListProducts returns the live menu, optionally narrowed to one category.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]entity.Product, error) {
	products, err := s.cachedMenu(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return products, nil
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) cachedMenu(ctx context.Context) ([]entity.Product, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, menuCacheKey).Result()
		switch {
		case err == nil:
			var products []entity.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
			logger.Warn().Msg("Discarding unreadable menu cache entry")
		case errors.Is(err, redis.Nil):
			logger.Debug().Msg("Menu not found in cache")
		default:
			logger.Error().Err(err).Msg("Error getting menu from cache")
		}
	}

	products, err := s.repo.ListProducts(ctx, "")
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}

	if s.rdb != nil {
		payload, err := json.Marshal(products)
		if err == nil {
			err = s.rdb.Set(ctx, menuCacheKey, payload, menuCacheTTL).Err()
		}
		if err != nil {
			logger.Error().Err(err).Msg("Error setting menu in cache")
		}
	}
	return products, nil
}

func (s *CatalogService) invalidateMenu(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		logger.Error().Err(err).Msg("Error deleting menu from cache")
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*entity.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func validateVariant(v VariantInput) error {
	if v.Price.IsNegative() {
		return apperror.NewValidation("variant price cannot be negative")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.NewValidation("name is required")
	}
	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	for _, v := range in.Variants {
		if err := validateVariant(v); err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, entity.Variant{ServingType: v.ServingType, Size: v.Size, Price: v.Price})
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		logger.Error().Err(err).Msgf("Error creating product %s", in.Name)
		return nil, err
	}
	s.invalidateMenu(ctx)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductUpdate) (*entity.Product, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperror.NewValidation("name cannot be empty")
		}
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if len(fields) == 0 {
		return nil, apperror.NewValidation("nothing to update")
	}
	if err := s.repo.UpdateProduct(ctx, id, fields); err != nil {
		return nil, err
	}
	s.invalidateMenu(ctx)
	return s.repo.GetProduct(ctx, id)
}

// DeleteProduct takes a product off the menu. Its variants can no longer
// be ordered.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.SoftDeleteProduct(ctx, id, s.now()); err != nil {
		return err
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *CatalogService) AddVariant(ctx context.Context, productID uint, in VariantInput) (*entity.Variant, error) {
	if err := validateVariant(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	variant := &entity.Variant{ProductID: productID, ServingType: in.ServingType, Size: in.Size, Price: in.Price}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidateMenu(ctx)
	return variant, nil
}

func (s *CatalogService) ListAddons(ctx context.Context, onlyAvailable bool) ([]entity.Addon, error) {
	return s.repo.ListAddons(ctx, onlyAvailable)
}

// CreateAddon adds an available addon; use UpdateAddon to disable it.
func (s *CatalogService) CreateAddon(ctx context.Context, in AddonInput) (*entity.Addon, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperror.NewValidation("addon price cannot be negative")
	}
	addon := &entity.Addon{Name: in.Name, Price: in.Price, IsAvailable: true}
	if err := s.repo.CreateAddon(ctx, addon); err != nil {
		return nil, err
	}
	return addon, nil
}

func (s *CatalogService) UpdateAddon(ctx context.Context, id uint, in AddonUpdate) error {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return apperror.NewValidation("addon price cannot be negative")
		}
		fields["price"] = *in.Price
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if len(fields) == 0 {
		return apperror.NewValidation("nothing to update")
	}
	return s.repo.UpdateAddon(ctx, id, fields)
}

// DisableAddon hides an addon from new orders. Existing order lines keep
// their snapshot.
func (s *CatalogService) DisableAddon(ctx context.Context, id uint) error {
	return s.repo.UpdateAddon(ctx, id, map[string]interface{}{"is_available": false})
}
