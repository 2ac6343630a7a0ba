package api

import (
	"bytes"
	"fmt"
	"net/http"

	"coffee-shop/internal/service"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales --> GET /api/reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) Sales(c echo.Context) error {
	from, to, err := h.reportService.DayRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.reportService.Sales(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportSales(c echo.Context) error {
	from, to, err := h.reportService.DayRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := h.reportService.ExportSales(c.Request().Context(), from, to, &buf); err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("sales-%s.xlsx", from.Format("2006-01-02"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
