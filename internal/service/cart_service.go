package service

import (
	"context"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/pricing"
	"coffee-shop/internal/repository"
)

type CartService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCartService(repo *repository.Repository) *CartService {
	return &CartService{repo: repo, now: time.Now}
}

type CartItemInput struct {
	VariantID uint             `json:"variant_id"`
	Quantity  int              `json:"quantity"`
	Addons    []AddonSelection `json:"addons"`
}

// UpdateCartItemInput changes the quantity and, when Addons is non-nil, the
// addon set of an item.
type UpdateCartItemInput struct {
	Quantity int               `json:"quantity"`
	Addons   *[]AddonSelection `json:"addons"`
}

func validateSelections(quantity int, addons []AddonSelection) error {
	if quantity < 1 {
		return apperror.NewValidation("quantity must be at least 1")
	}
	seen := make(map[uint]bool, len(addons))
	for _, a := range addons {
		if a.Quantity < 1 {
			return apperror.NewValidation("addon quantity must be at least 1")
		}
		if seen[a.AddonID] {
			return apperror.NewValidation("addon %d listed twice", a.AddonID)
		}
		seen[a.AddonID] = true
	}
	return nil
}

// GetCart returns the customer's active cart, or an empty one when the
// customer has none yet.
func (s *CartService) GetCart(ctx context.Context, customerID uint) (*entity.Cart, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	cart, err := s.repo.GetActiveCart(ctx, customerID, false)
	if apperror.Is(err, apperror.KindNotFound) {
		return &entity.Cart{CustomerID: customerID, Status: entity.CartStatusActive, Items: []entity.CartItem{}}, nil
	}
	return cart, err
}

// AddItem puts a variant in the cart. The same variant with the same addon
// set merges into the existing line.
func (s *CartService) AddItem(ctx context.Context, customerID uint, in CartItemInput) (*entity.Cart, error) {
	if err := validateSelections(in.Quantity, in.Addons); err != nil {
		return nil, err
	}

	var cart *entity.Cart
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetCustomer(ctx, customerID); err != nil {
			return err
		}
		variant, err := tx.GetVariant(ctx, in.VariantID)
		if err != nil {
			return err
		}
		addons, err := tx.GetAddons(ctx, addonIDs(in.Addons))
		if err != nil {
			return err
		}

		current, err := tx.GetActiveCart(ctx, customerID, true)
		if apperror.Is(err, apperror.KindNotFound) {
			current, err = tx.CreateActiveCart(ctx, customerID)
		}
		if err != nil {
			return err
		}

		if existing := findMergeable(current.Items, in); existing != nil {
			item := *existing
			item.Quantity += in.Quantity
			merged := selectionsOf(existing.Addons)
			for i := range merged {
				merged[i].Quantity *= 2
			}
			repriceItem(&item, variant, addons, merged)
			if err := tx.ReplaceCartItem(ctx, &item); err != nil {
				return err
			}
		} else {
			item := entity.CartItem{CartID: current.ID, VariantID: variant.ID, Quantity: in.Quantity}
			repriceItem(&item, variant, addons, in.Addons)
			if err := tx.CreateCartItem(ctx, &item); err != nil {
				return err
			}
		}

		cart, err = tx.GetActiveCart(ctx, customerID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets a new quantity (and optionally addons) and reprices the
// line at current menu prices.
func (s *CartService) UpdateItem(ctx context.Context, customerID, itemID uint, in UpdateCartItemInput) (*entity.Cart, error) {
	var cart *entity.Cart
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetActiveCart(ctx, customerID, true)
		if err != nil {
			return err
		}
		existing := findItem(current.Items, itemID)
		if existing == nil {
			return apperror.NewNotFound("cart item %d not found", itemID)
		}

		selections := selectionsOf(existing.Addons)
		if in.Addons != nil {
			selections = *in.Addons
		}
		if err := validateSelections(in.Quantity, selections); err != nil {
			return err
		}

		variant, err := tx.GetVariant(ctx, existing.VariantID)
		if err != nil {
			return err
		}
		addons, err := tx.GetAddons(ctx, addonIDs(selections))
		if err != nil {
			return err
		}

		item := *existing
		item.Quantity = in.Quantity
		repriceItem(&item, variant, addons, selections)
		if err := tx.ReplaceCartItem(ctx, &item); err != nil {
			return err
		}

		cart, err = tx.GetActiveCart(ctx, customerID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, itemID uint) (*entity.Cart, error) {
	var cart *entity.Cart
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetActiveCart(ctx, customerID, true)
		if err != nil {
			return err
		}
		if err := tx.SoftDeleteCartItem(ctx, current.ID, itemID, s.now()); err != nil {
			return err
		}
		cart, err = tx.GetActiveCart(ctx, customerID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AbandonCart closes the active cart without ordering.
func (s *CartService) AbandonCart(ctx context.Context, customerID uint) error {
	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetActiveCart(ctx, customerID, true)
		if err != nil {
			return err
		}
		return tx.CloseCart(ctx, current.ID, entity.CartStatusAbandoned)
	})
}

// repriceItem snapshots current variant and addon prices onto the item and
// recomputes its line price.
func repriceItem(item *entity.CartItem, variant *entity.Variant, addons map[uint]entity.Addon, selections []AddonSelection) {
	line := pricing.Line{UnitPrice: variant.Price, Quantity: item.Quantity}
	item.Addons = item.Addons[:0:0]
	for _, sel := range selections {
		price := addons[sel.AddonID].Price
		line.Addons = append(line.Addons, pricing.AddonLine{Price: price, Quantity: sel.Quantity})
		item.Addons = append(item.Addons, entity.CartItemAddon{AddonID: sel.AddonID, Quantity: sel.Quantity, Price: price})
	}
	item.UnitPrice = variant.Price
	item.Price = line.Subtotal()
}

func findItem(items []entity.CartItem, id uint) *entity.CartItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func selectionsOf(addons []entity.CartItemAddon) []AddonSelection {
	out := make([]AddonSelection, 0, len(addons))
	for _, a := range addons {
		out = append(out, AddonSelection{AddonID: a.AddonID, Quantity: a.Quantity})
	}
	return out
}

// findMergeable finds a line with the same variant and exactly the same
// addons, quantities included. Merging doubles those addon quantities.
func findMergeable(items []entity.CartItem, in CartItemInput) *entity.CartItem {
	for i := range items {
		if items[i].VariantID != in.VariantID || len(items[i].Addons) != len(in.Addons) {
			continue
		}
		have := make(map[uint]int, len(items[i].Addons))
		for _, a := range items[i].Addons {
			have[a.AddonID] = a.Quantity
		}
		same := true
		for _, a := range in.Addons {
			if have[a.AddonID] != a.Quantity {
				same = false
				break
			}
		}
		if same {
			return &items[i]
		}
	}
	return nil
}
