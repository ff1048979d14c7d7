package handler

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/billmaster/backend/internal/application/audit"
	"github.com/billmaster/backend/internal/application/report"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ReportService produces read-only aggregates
type ReportService interface {
	SalesSummary(ctx context.Context, actor identity.Actor, req report.SalesSummaryRequest) (*report.SalesSummaryResponse, error)
	Dashboard(ctx context.Context, actor identity.Actor) (*report.DashboardResponse, error)
	LowStock(ctx context.Context, actor identity.Actor) ([]report.LowStockItemResponse, error)
	CustomerReport(ctx context.Context, actor identity.Actor, req report.CustomerReportRequest) (*report.CustomerReportResponse, error)
	InventoryReport(ctx context.Context, actor identity.Actor) (*report.InventoryReportResponse, error)
}

// AuditLogService lists audit entries
type AuditLogService interface {
	List(ctx context.Context, actor identity.Actor, req audit.ListAuditLogsRequest) (*shared.Paginated[audit.AuditLogResponse], error)
}

// ReportHandler serves reports and the audit trail
type ReportHandler struct {
	BaseHandler
	reports ReportService
	audit   AuditLogService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService, auditLogs AuditLogService) *ReportHandler {
	return &ReportHandler{reports: reports, audit: auditLogs}
}

// Sales godoc
// @ID           salesReport
// @Summary      Sales summary
// @Description  Totals for active invoices between from and to, both inclusive. format=csv downloads the same figures as a spreadsheet.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Param        from query string true "Start date" format(date)
// @Param        to query string true "End date" format(date)
// @Param        format query string false "Output format" Enums(json, csv)
// @Success      200 {object} dto.Response{data=report.SalesSummaryResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req report.SalesSummaryRequest
	if !h.bindQuery(c, &req) {
		return
	}
	summary, err := h.reports.SalesSummary(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", `attachment; filename="sales-`+summary.From+`-to-`+summary.To+`.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := writeSalesCSV(c.Writer, summary); err != nil {
			_ = c.Error(err)
		}
		return
	}
	h.Success(c, summary)
}

func writeSalesCSV(w io.Writer, s *report.SalesSummaryResponse) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Metric", "Value"},
		{"From", s.From},
		{"To", s.To},
		{"Total Invoices", strconv.FormatInt(s.InvoiceCount, 10)},
		{"Total Sales", s.TotalSales.StringFixed(2)},
		{"Total Discount", s.TotalDiscount.StringFixed(2)},
		{"Average Invoice", s.AverageInvoice.StringFixed(2)},
		{},
		{"Payment Mode", "Invoices", "Total"},
	}
	for _, m := range s.ByPaymentMode {
		rows = append(rows, []string{m.PaymentMode, strconv.FormatInt(m.Count, 10), m.Total.StringFixed(2)})
	}
	if len(s.TopCustomers) > 0 {
		rows = append(rows, []string{}, []string{"Top Customer", "Invoices", "Total"})
		for _, tc := range s.TopCustomers {
			rows = append(rows, []string{tc.CustomerName, strconv.FormatInt(tc.InvoiceCount, 10), tc.Total.StringFixed(2)})
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Dashboard godoc
// @ID           dashboard
// @Summary      Dashboard counters
// @Description  Today's and this month's sales, low stock, dues tomorrow and pending cancellations
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DashboardResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	dash, err := h.reports.Dashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dash)
}

// Customers godoc
// @ID           customerReport
// @Summary      Customer report
// @Description  Customer counts, top customers by sales with invoice counts, and everyone with outstanding credit
// @Tags         reports
// @Produce      json
// @Param        from query string true "Start date" format(date)
// @Param        to query string true "End date" format(date)
// @Success      200 {object} dto.Response{data=report.CustomerReportResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/customers [get]
func (h *ReportHandler) Customers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req report.CustomerReportRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.reports.CustomerReport(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Inventory godoc
// @ID           inventoryReport
// @Summary      Inventory report
// @Description  Item counts and the low stock list
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.InventoryReportResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	result, err := h.reports.InventoryReport(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// LowStock godoc
// @ID           lowStockReport
// @Summary      Low stock items
// @Description  Active items at or below their minimum stock alert
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.LowStockItemResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/low-stock [get]
func (h *ReportHandler) LowStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	items, err := h.reports.LowStock(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []report.LowStockItemResponse{}
	}
	h.Success(c, items)
}

// AuditLogs godoc
// @ID           listAuditLogs
// @Summary      Audit trail
// @Description  Page through audit entries, newest first. Admin only.
// @Tags         audit
// @Produce      json
// @Param        action query string false "Action name"
// @Param        user_email query string false "Actor email"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]audit.AuditLogResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req audit.ListAuditLogsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.audit.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}
