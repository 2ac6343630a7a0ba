package service

import (
	"context"
	"io"
	"sort"
	"time"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

type ReportService struct {
	repo     *repository.Repository
	location *time.Location
}

func NewReportService(repo *repository.Repository, location *time.Location) *ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportService{repo: repo, location: location}
}

type VariantSales struct {
	VariantID uint            `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesReport summarises live, non-cancelled orders placed between From
// (inclusive) and To (exclusive).
type SalesReport struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	OrderCount int             `json:"order_count"`
	Gross      decimal.Decimal `json:"gross"`
	Discounts  decimal.Decimal `json:"discounts"`
	Net        decimal.Decimal `json:"net"`
	Variants   []VariantSales  `json:"variants"`
}

// DayRange turns inclusive YYYY-MM-DD bounds into a half-open time range in
// the shop's time zone. An empty from means today, an empty to means the
// same day as from.
func (s *ReportService) DayRange(from, to string) (time.Time, time.Time, error) {
	if from == "" {
		from = time.Now().In(s.location).Format("2006-01-02")
	}
	start, err := time.ParseInLocation("2006-01-02", from, s.location)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid from date %q, want YYYY-MM-DD", from)
	}
	end := start
	if to != "" {
		if end, err = time.ParseInLocation("2006-01-02", to, s.location); err != nil {
			return time.Time{}, time.Time{}, apperror.NewValidation("invalid to date %q, want YYYY-MM-DD", to)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.NewValidation("to date is before from date")
	}
	return start, end.AddDate(0, 0, 1), nil
}

func (s *ReportService) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	orders, err := s.repo.SalesOrders(ctx, from, to)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading sales orders")
		return nil, err
	}

	report := &SalesReport{From: from, To: to, Gross: decimal.Zero, Discounts: decimal.Zero, Net: decimal.Zero}
	byVariant := map[uint]*VariantSales{}
	for _, o := range orders {
		report.OrderCount++
		report.Net = report.Net.Add(o.TotalAmount)
		report.Discounts = report.Discounts.Add(o.DiscountApplied)
		for _, it := range o.Items {
			report.Gross = report.Gross.Add(it.PriceAtPurchase)
			v, ok := byVariant[it.VariantID]
			if !ok {
				v = &VariantSales{VariantID: it.VariantID, Revenue: decimal.Zero}
				byVariant[it.VariantID] = v
			}
			v.Quantity += it.Quantity
			v.Revenue = v.Revenue.Add(it.PriceAtPurchase)
		}
	}

	report.Variants = make([]VariantSales, 0, len(byVariant))
	for _, v := range byVariant {
		report.Variants = append(report.Variants, *v)
	}
	sort.Slice(report.Variants, func(i, j int) bool {
		if report.Variants[i].Quantity != report.Variants[j].Quantity {
			return report.Variants[i].Quantity > report.Variants[j].Quantity
		}
		return report.Variants[i].VariantID < report.Variants[j].VariantID
	})
	return report, nil
}

// ExportSales writes the sales report as an xlsx workbook with a Summary
// sheet and an Orders sheet.
func (s *ReportService) ExportSales(ctx context.Context, from, to time.Time, w io.Writer) error {
	report, err := s.Sales(ctx, from, to)
	if err != nil {
		return err
	}
	orders, err := s.repo.SalesOrders(ctx, from, to)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	summary, err := file.AddSheet("Summary")
	if err != nil {
		return err
	}
	addRow(summary, "From", report.From.In(s.location).Format("2006-01-02"))
	addRow(summary, "To", report.To.In(s.location).AddDate(0, 0, -1).Format("2006-01-02"))
	addRow(summary, "Orders", report.OrderCount)
	addRow(summary, "Gross", report.Gross.StringFixed(2))
	addRow(summary, "Discounts", report.Discounts.StringFixed(2))
	addRow(summary, "Net", report.Net.StringFixed(2))
	addRow(summary)
	addRow(summary, "Variant ID", "Quantity", "Revenue")
	for _, v := range report.Variants {
		addRow(summary, v.VariantID, v.Quantity, v.Revenue.StringFixed(2))
	}

	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	addRow(sheet, "Order Number", "Customer ID", "Status", "Payment Status", "Discount", "Total", "Created At")
	for _, o := range orders {
		addRow(sheet, o.OrderNumber, o.CustomerID, string(o.Status), string(o.PaymentStatus),
			o.DiscountApplied.StringFixed(2), o.TotalAmount.StringFixed(2),
			o.CreatedAt.In(s.location).Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, values ...interface{}) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}
