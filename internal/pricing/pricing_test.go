package pricing

import (
	"testing"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestQuoteLine_PercentageOffUsesOneLoadedUnit(t *testing.T) {
	line := Line{
		UnitPrice: dec(120),
		Quantity:  2,
		Addons:    []AddonLine{{Price: dec(20), Quantity: 1}},
	}
	q, err := QuoteLine(line, &entity.Discount{Type: entity.DiscountPercentageOff, Value: dec(10)})
	require.NoError(t, err)

	assert.True(t, q.Subtotal.Equal(dec(260)), "subtotal %s", q.Subtotal)
	assert.True(t, q.DiscountAmount.Equal(dec(13)), "discount %s", q.DiscountAmount)
	assert.True(t, q.Total.Equal(dec(247)), "total %s", q.Total)
}

func TestQuoteLine_DiscountKinds(t *testing.T) {
	line := Line{UnitPrice: dec(100), Quantity: 3, Addons: []AddonLine{{Price: dec(15), Quantity: 2}}}
	// one unit = 100 + 30/3 = 110, subtotal = 330

	tests := []struct {
		name     string
		discount *entity.Discount
		amount   int64
		total    int64
	}{
		{"none", nil, 0, 330},
		{"percentage floors", &entity.Discount{Type: entity.DiscountPercentageOff, Value: dec(15)}, 16, 314},
		{"fixed below unit", &entity.Discount{Type: entity.DiscountFixedAmount, Value: dec(50)}, 50, 280},
		{"fixed capped at unit", &entity.Discount{Type: entity.DiscountFixedAmount, Value: dec(500)}, 110, 220},
		{"free item includes addons", &entity.Discount{Type: entity.DiscountFreeItem}, 110, 220},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuoteLine(line, tt.discount)
			require.NoError(t, err)
			assert.True(t, q.DiscountAmount.Equal(dec(tt.amount)), "discount %s", q.DiscountAmount)
			assert.True(t, q.Total.Equal(dec(tt.total)), "total %s", q.Total)
		})
	}
}

func TestQuoteLine_TotalNeverNegative(t *testing.T) {
	q, err := QuoteLine(Line{UnitPrice: dec(0), Quantity: 1}, &entity.Discount{Type: entity.DiscountFreeItem})
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(decimal.Zero))
}

func TestQuoteLine_Rejections(t *testing.T) {
	_, err := QuoteLine(Line{UnitPrice: dec(10), Quantity: 0}, nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = QuoteLine(Line{UnitPrice: dec(10), Quantity: 1}, &entity.Discount{Type: entity.DiscountPercentageOff, Value: dec(150)})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = QuoteLine(Line{UnitPrice: dec(10), Quantity: 1}, &entity.Discount{ID: 4, Type: entity.DiscountFreeItem, IsRedeemed: true})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = QuoteLine(Line{UnitPrice: dec(10), Quantity: 1}, &entity.Discount{Type: "BOGO"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestQuoteCart_DiscountsMostExpensiveUnit(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec(90), Quantity: 2},
		{UnitPrice: dec(150), Quantity: 1, Addons: []AddonLine{{Price: dec(25), Quantity: 1}}},
	}
	q, err := QuoteCart(lines, &entity.Discount{Type: entity.DiscountFreeItem})
	require.NoError(t, err)
	assert.True(t, q.Subtotal.Equal(dec(355)))
	assert.True(t, q.DiscountAmount.Equal(dec(175)))
	assert.True(t, q.Total.Equal(dec(180)))

	_, err = QuoteCart(nil, nil)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
