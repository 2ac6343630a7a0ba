// Package pricing computes line subtotals and discount amounts for carts
// and single-item buyouts.
//
// A discount always applies to ONE fully-loaded unit: the variant price plus
// that unit's share of the line's addons. This caps the value of a discount
// regardless of how many units are ordered.
package pricing

import (
	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AddonLine is one addon attached to a line, priced per unit of addon.
type AddonLine struct {
	Price    decimal.Decimal
	Quantity int
}

// Line is a priced line item before discount.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Addons    []AddonLine
}

// Quote is the result of pricing one line or a whole cart.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

func (l Line) validate() error {
	if l.Quantity < 1 {
		return apperror.NewValidation("quantity must be at least 1")
	}
	if l.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative")
	}
	for _, a := range l.Addons {
		if a.Quantity < 1 {
			return apperror.NewValidation("addon quantity must be at least 1")
		}
		if a.Price.IsNegative() {
			return apperror.NewValidation("addon price cannot be negative")
		}
	}
	return nil
}

// AddonTotal is Σ addon price × addon quantity.
func (l Line) AddonTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.Addons {
		total = total.Add(a.Price.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	return total
}

// Subtotal is unit price × quantity plus the addon total.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Add(l.AddonTotal())
}

// OneUnitPrice is the unit price plus the per-unit share of the addons.
func (l Line) OneUnitPrice() decimal.Decimal {
	return l.UnitPrice.Add(l.AddonTotal().Div(decimal.NewFromInt(int64(l.Quantity))))
}

// DiscountFor returns the amount the discount takes off one unit priced at
// oneUnitPrice. It never exceeds oneUnitPrice.
func DiscountFor(oneUnitPrice decimal.Decimal, d *entity.Discount) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if d.IsRedeemed {
		return decimal.Zero, apperror.NewConflict("discount %d already redeemed", d.ID)
	}

	var amount decimal.Decimal
	switch d.Type {
	case entity.DiscountPercentageOff:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			return decimal.Zero, apperror.NewValidation("percentage must be 0-100")
		}
		amount = oneUnitPrice.Mul(d.Value).Div(hundred).Floor()
	case entity.DiscountFixedAmount:
		if d.Value.IsNegative() {
			return decimal.Zero, apperror.NewValidation("fixed discount cannot be negative")
		}
		amount = decimal.Min(d.Value, oneUnitPrice)
	case entity.DiscountFreeItem:
		amount = oneUnitPrice
	default:
		return decimal.Zero, apperror.NewValidation("invalid discount type %q", d.Type)
	}
	return amount, nil
}

// QuoteLine prices a single line and applies an optional discount.
func QuoteLine(line Line, d *entity.Discount) (Quote, error) {
	if err := line.validate(); err != nil {
		return Quote{}, err
	}
	subtotal := line.Subtotal()
	amount, err := DiscountFor(line.OneUnitPrice(), d)
	if err != nil {
		return Quote{}, err
	}
	return finish(subtotal, amount), nil
}

// QuoteCart prices several lines. The discount is applied once, to the line
// whose fully-loaded unit is the most expensive.
func QuoteCart(lines []Line, d *entity.Discount) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, apperror.NewValidation("no lines to price")
	}
	subtotal := decimal.Zero
	best := decimal.Zero
	for _, line := range lines {
		if err := line.validate(); err != nil {
			return Quote{}, err
		}
		subtotal = subtotal.Add(line.Subtotal())
		if unit := line.OneUnitPrice(); unit.GreaterThan(best) {
			best = unit
		}
	}
	amount, err := DiscountFor(best, d)
	if err != nil {
		return Quote{}, err
	}
	return finish(subtotal, amount), nil
}

func finish(subtotal, amount decimal.Decimal) Quote {
	total := subtotal.Sub(amount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{Subtotal: subtotal, DiscountAmount: amount, Total: total}
}
