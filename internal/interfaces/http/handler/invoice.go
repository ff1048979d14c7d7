package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/application/printing"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader lets clients retry invoice creation safely
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// InvoiceService is the billing surface the invoice routes call
type InvoiceService interface {
	Quote(ctx context.Context, actor identity.Actor, req billing.QuoteRequest) (*billing.QuoteResponse, error)
	Create(ctx context.Context, actor identity.Actor, req billing.CreateInvoiceRequest) (*billing.InvoiceResponse, error)
	RecordPayment(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req billing.RecordPaymentRequest) (*billing.InvoiceResponse, error)
	RequestCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req billing.CancellationRequest) (*billing.InvoiceResponse, error)
	ApproveCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*billing.InvoiceResponse, error)
	RejectCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req billing.CancellationRequest) (*billing.InvoiceResponse, error)
	Get(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*billing.InvoiceResponse, error)
	GetByNumber(ctx context.Context, actor identity.Actor, number string) (*billing.InvoiceResponse, error)
	List(ctx context.Context, actor identity.Actor, req billing.ListInvoicesRequest) (*shared.Paginated[billing.InvoiceResponse], error)
	ListCreditDues(ctx context.Context, actor identity.Actor, which billing.DueFilter, page, pageSize int) (*shared.Paginated[billing.CreditDueResponse], error)
}

// InvoicePrinter renders invoices for printing
type InvoicePrinter interface {
	RenderHTML(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (string, error)
	RenderPDF(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*printing.PDFDocument, error)
}

// InvoiceHandler handles invoice, payment and cancellation endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
	printer  InvoicePrinter
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices InvoiceService, printer InvoicePrinter) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, printer: printer}
}

// Quote godoc
// @ID           quoteInvoice
// @Summary      Price a draft invoice
// @Description  Compute subtotal, discount, rounding and grand total without saving anything
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body billing.QuoteRequest true "Draft lines and discount"
// @Success      200 {object} dto.Response{data=billing.QuoteResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/quote [post]
func (h *InvoiceHandler) Quote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req billing.QuoteRequest
	if !h.bind(c, &req) {
		return
	}
	quote, err := h.invoices.Quote(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Create godoc
// @ID           createInvoice
// @Summary      Finalize an invoice
// @Description  Create an invoice, take stock and book credit. A repeated Idempotency-Key is rejected with 409.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client retry key" maxlength(128)
// @Param        request body billing.CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req billing.CreateInvoiceRequest
	if !h.bind(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	inv, err := h.invoices.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Location", "/api/v1/invoices/"+inv.ID.String())
	h.Created(c, inv)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Page through invoices, newest first
// @Tags         invoices
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        status query string false "Invoice status" Enums(active, pending_cancel, cancelled)
// @Param        payment_mode query string false "Payment mode" Enums(cash, upi, card, credit)
// @Param        search query string false "Invoice number or customer name"
// @Param        from query string false "Created on or after" format(date)
// @Param        to query string false "Created on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req billing.ListInvoicesRequest
	if !h.bindQuery(c, &req) {
		return
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer_id")
			return
		}
		req.CustomerID = &id
	}
	result, err := h.invoices.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get godoc
// @ID           getInvoiceById
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// GetByNumber godoc
// @ID           getInvoiceByNumber
// @Summary      Get invoice by number
// @Description  Look an invoice up by its printed invoice number
// @Tags         invoices
// @Produce      json
// @Param        number path string true "Invoice number" example(INV-0001)
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	inv, err := h.invoices.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// PDF godoc
// @ID           downloadInvoicePdf
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	doc, err := h.printer.RenderPDF(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("X-Page-Count", strconv.Itoa(doc.Pages))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// Print godoc
// @ID           printInvoice
// @Summary      Printable invoice
// @Description  Render the invoice as HTML for browser printing
// @Tags         invoices
// @Produce      html
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {string} string
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/print [get]
func (h *InvoiceHandler) Print(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	html, err := h.printer.RenderHTML(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment
// @Description  Apply a payment against a credit invoice's balance due
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billing.RecordPaymentRequest true "Payment"
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billing.RecordPaymentRequest
	if !h.bind(c, &req) {
		return
	}
	inv, err := h.invoices.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RequestCancellation godoc
// @ID           requestInvoiceCancellation
// @Summary      Request cancellation
// @Description  Move an active invoice to pending_cancel
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billing.CancellationRequest true "Reason"
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/cancellation [post]
func (h *InvoiceHandler) RequestCancellation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billing.CancellationRequest
	if !h.bind(c, &req) {
		return
	}
	inv, err := h.invoices.RequestCancellation(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ApproveCancellation godoc
// @ID           approveInvoiceCancellation
// @Summary      Approve cancellation
// @Description  Cancel the invoice and reverse its stock and credit. Admin only.
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/cancellation/approve [post]
func (h *InvoiceHandler) ApproveCancellation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inv, err := h.invoices.ApproveCancellation(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RejectCancellation godoc
// @ID           rejectInvoiceCancellation
// @Summary      Reject cancellation
// @Description  Return a pending invoice to active. Admin only.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billing.CancellationRequest true "Reason"
// @Success      200 {object} dto.Response{data=billing.InvoiceResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /invoices/{id}/cancellation/reject [post]
func (h *InvoiceHandler) RejectCancellation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req billing.CancellationRequest
	if !h.bind(c, &req) {
		return
	}
	inv, err := h.invoices.RejectCancellation(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

type creditDuesQuery struct {
	Filter   string `form:"filter" binding:"omitempty,oneof=all overdue due_soon"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreditDues godoc
// @ID           listCreditDues
// @Summary      List credit dues
// @Description  Credit invoices with an outstanding balance, soonest due first
// @Tags         invoices
// @Produce      json
// @Param        filter query string false "Due filter" Enums(all, overdue, due_soon)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billing.CreditDueResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /credit-dues [get]
func (h *InvoiceHandler) CreditDues(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q creditDuesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	which := billing.DueFilter(q.Filter)
	if which == "" {
		which = billing.DueFilterAll
	}
	result, err := h.invoices.ListCreditDues(c.Request.Context(), actor, which, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}
