package handler

import (
	"time"

	"waterlife-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	reports service.ReportService
	exports service.ExportService
}

func NewReportHandler(reports service.ReportService, exports service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// GET /api/v1/reports/sales/summary
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.reports.SalesSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GET /api/v1/reports/sales/recent
func (h *ReportHandler) Recent(c *fiber.Ctx) error {
	sales, err := h.reports.RecentSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// GET /api/v1/reports/sales/monthly
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	months, err := h.reports.MonthlySales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(months)
}

// GET /api/v1/reports/sales/top-clients
func (h *ReportHandler) TopClients(c *fiber.Ctx) error {
	clients, err := h.reports.TopClients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

// GET /api/v1/reports/sales/top-products
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	products, err := h.reports.TopProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// Export downloads the sales of a date range as a spreadsheet.
// Query params: from, to (YYYY-MM-DD, to inclusive; default the current month)
// GET /api/v1/reports/sales/export
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid from date, use YYYY-MM-DD")
		}
		from = d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid to date, use YYYY-MM-DD")
		}
		to = d.AddDate(0, 0, 1)
	}

	data, err := h.exports.SalesWorkbook(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}

	filename := "ventas_" + from.Format(dateLayout) + "_" + to.AddDate(0, 0, -1).Format(dateLayout) + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
