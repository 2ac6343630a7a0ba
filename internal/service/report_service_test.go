package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestReportService_DayRange(t *testing.T) {
	svc := NewReportService(nil, time.UTC)

	from, to, err := svc.DayRange("2026-10-15", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), to)

	_, _, err = svc.DayRange("2026-10-15", "2026-10-01")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, _, err = svc.DayRange("yesterday", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestReportService_SalesAndExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orders := f.orderService(nil, nil, nil)
	discount := f.newDiscount(t, nil, entity.DiscountPercentageOff, "10")

	_, err := orders.Buyout(ctx, BuyoutRequest{
		CustomerID: f.customer.ID,
		VariantID:  f.variant.ID,
		Quantity:   2,
		Addons:     []AddonSelection{{AddonID: f.addon.ID, Quantity: 1}},
		DiscountID: &discount.ID,
	})
	require.NoError(t, err)
	cancelled, err := orders.Buyout(ctx, BuyoutRequest{CustomerID: f.customer.ID, VariantID: f.variant.ID, Quantity: 1})
	require.NoError(t, err)
	status := "CANCELLED"
	_, err = orders.UpdateOrder(ctx, cancelled.ID, UpdateOrderRequest{Status: &status})
	require.NoError(t, err)

	svc := NewReportService(f.repo, time.UTC)
	from, to := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)
	report, err := svc.Sales(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrderCount)
	assert.Equal(t, "260.00", report.Gross.StringFixed(2))
	assert.Equal(t, "13.00", report.Discounts.StringFixed(2))
	assert.Equal(t, "247.00", report.Net.StringFixed(2))
	require.Len(t, report.Variants, 1)
	assert.Equal(t, 2, report.Variants[0].Quantity)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSales(ctx, from, to, &buf))
	book, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 2)
	assert.Equal(t, "Summary", book.Sheets[0].Name)
	ordersSheet := book.Sheets[1]
	require.Len(t, ordersSheet.Rows, 2)
	assert.Equal(t, "CH-0001", ordersSheet.Rows[1].Cells[0].String())
}
