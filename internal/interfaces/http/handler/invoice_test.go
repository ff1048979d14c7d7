package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/application/printing"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInvoiceRouter(actorSet bool, svc *MockInvoiceService, printer *MockInvoicePrinter) *gin.Engine {
	actor := testClerk
	if !actorSet {
		actor.Email = ""
	}
	r := newTestRouter(actor)
	h := NewInvoiceHandler(svc, printer)
	r.POST("/invoices/quote", h.Quote)
	r.POST("/invoices", h.Create)
	r.GET("/invoices", h.List)
	r.GET("/invoices/number/:number", h.GetByNumber)
	r.GET("/invoices/:id", h.Get)
	r.GET("/invoices/:id/pdf", h.PDF)
	r.GET("/invoices/:id/print", h.Print)
	r.POST("/invoices/:id/payments", h.RecordPayment)
	r.POST("/invoices/:id/cancellation", h.RequestCancellation)
	r.POST("/invoices/:id/cancellation/approve", h.ApproveCancellation)
	r.POST("/invoices/:id/cancellation/reject", h.RejectCancellation)
	r.GET("/credit-dues", h.CreditDues)
	return r
}

func TestInvoiceHandler_Quote(t *testing.T) {
	svc := new(MockInvoiceService)
	svc.On("Quote", mock.Anything, testClerk, mock.MatchedBy(func(req billing.QuoteRequest) bool {
		return len(req.Items) == 1 && req.Items[0].Rate.Equal(decimal.RequireFromString("99.50")) && req.Discount.IsZero()
	})).Return(&billing.QuoteResponse{
		Subtotal:      decimal.RequireFromString("199.00"),
		AfterDiscount: decimal.RequireFromString("199.00"),
		RoundingOff:   decimal.Zero,
		GrandTotal:    decimal.RequireFromString("199.00"),
	}, nil)

	w := doJSON(newInvoiceRouter(true, svc, nil), http.MethodPost, "/invoices/quote",
		`{"items":[{"quantity":"2","rate":"99.50"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var quote billing.QuoteResponse
	resp := decodeData(t, w, &quote)
	assert.True(t, resp.Success)
	assert.True(t, quote.GrandTotal.Equal(decimal.NewFromInt(199)))
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_Create(t *testing.T) {
	customerID := uuid.New()
	itemID := uuid.New()
	body := map[string]any{
		"customer_id":  customerID,
		"payment_mode": "credit",
		"credit_term":  "net_30",
		"amount_paid":  "100",
		"items": []map[string]any{
			{"item_id": itemID, "quantity": "3", "rate": "250"},
		},
	}

	t.Run("passes the idempotency key through", func(t *testing.T) {
		svc := new(MockInvoiceService)
		created := &billing.InvoiceResponse{ID: uuid.New(), InvoiceNumber: "INV-0001", Status: "active"}
		svc.On("Create", mock.Anything, testClerk, mock.MatchedBy(func(req billing.CreateInvoiceRequest) bool {
			return req.IdempotencyKey == "k-1" &&
				req.CustomerID == customerID &&
				req.PaymentMode == "credit" &&
				req.CreditTerm == "net_30" &&
				req.RoundingEnabled() &&
				req.Items[0].Quantity.Equal(decimal.NewFromInt(3))
		})).Return(created, nil)

		raw := doJSON(newInvoiceRouter(true, svc, nil), http.MethodPost, "/invoices", body, IdempotencyKeyHeader, "k-1")

		require.Equal(t, http.StatusCreated, raw.Code)
		assert.Equal(t, "/api/v1/invoices/"+created.ID.String(), raw.Header().Get("Location"))
		var inv billing.InvoiceResponse
		decodeData(t, raw, &inv)
		assert.Equal(t, "INV-0001", inv.InvoiceNumber)
		svc.AssertExpectations(t)
	})

	t.Run("replayed key is a conflict", func(t *testing.T) {
		svc := new(MockInvoiceService)
		svc.On("Create", mock.Anything, testClerk, mock.Anything).
			Return(nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice already submitted with this key"))

		w := doJSON(newInvoiceRouter(true, svc, nil), http.MethodPost, "/invoices", body, IdempotencyKeyHeader, "k-1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_EXISTS", decode(t, w).Error.Code)
	})

	t.Run("binding rejects an unknown payment mode", func(t *testing.T) {
		svc := new(MockInvoiceService)
		bad := map[string]any{
			"customer_id":  customerID,
			"payment_mode": "cheque",
			"items":        []map[string]any{{"item_id": itemID, "quantity": "1", "rate": "1"}},
		}

		w := doJSON(newInvoiceRouter(true, svc, nil), http.MethodPost, "/invoices", bad)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "payment_mode", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := doJSON(newInvoiceRouter(false, new(MockInvoiceService), nil), http.MethodPost, "/invoices", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestInvoiceHandler_ErrorMapping(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"overpayment", shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment exceeds balance due"), http.StatusBadRequest, "INVALID_PAYMENT_AMOUNT"},
		{"cancelled invoice", shared.NewDomainError("INVALID_STATE", "Invoice is cancelled"), http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"missing", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"stale write", shared.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockInvoiceService)
			svc.On("RecordPayment", mock.Anything, testClerk, id, mock.Anything).Return(nil, tt.err)

			w := doJSON(newInvoiceRouter(true, svc, nil), http.MethodPost, "/invoices/"+id.String()+"/payments", `{"amount":"50"}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestInvoiceHandler_Cancellation(t *testing.T) {
	id := uuid.New()
	svc := new(MockInvoiceService)
	r := newInvoiceRouter(true, svc, nil)

	svc.On("RequestCancellation", mock.Anything, testClerk, id, billing.CancellationRequest{Reason: "wrong customer"}).
		Return(&billing.InvoiceResponse{ID: id, Status: "pending_cancel"}, nil)
	svc.On("ApproveCancellation", mock.Anything, testClerk, id).
		Return(nil, shared.ErrForbidden)
	svc.On("RejectCancellation", mock.Anything, testClerk, id, billing.CancellationRequest{Reason: "keep it"}).
		Return(&billing.InvoiceResponse{ID: id, Status: "active"}, nil)

	w := doJSON(r, http.MethodPost, "/invoices/"+id.String()+"/cancellation", `{"reason":"wrong customer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var inv billing.InvoiceResponse
	decodeData(t, w, &inv)
	assert.Equal(t, "pending_cancel", inv.Status)

	w = doJSON(r, http.MethodPost, "/invoices/"+id.String()+"/cancellation/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/invoices/"+id.String()+"/cancellation/reject", `{"reason":"keep it"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/invoices/"+id.String()+"/cancellation", `{"reason":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestInvoiceHandler_List(t *testing.T) {
	customerID := uuid.New()
	svc := new(MockInvoiceService)
	svc.On("List", mock.Anything, testClerk, mock.MatchedBy(func(req billing.ListInvoicesRequest) bool {
		return req.Status == "active" && req.Page == 2 && req.CustomerID != nil && *req.CustomerID == customerID &&
			req.From != nil && req.From.Format("2006-01-02") == "2026-03-01"
	})).Return(&shared.Paginated[billing.InvoiceResponse]{
		Items: []billing.InvoiceResponse{{InvoiceNumber: "INV-0021"}},
		Total: 21, Page: 2, PageSize: 20, TotalPages: 2,
	}, nil)
	r := newInvoiceRouter(true, svc, nil)

	w := doJSON(r, http.MethodGet, "/invoices?status=active&page=2&from=2026-03-01&customer_id="+customerID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var items []billing.InvoiceResponse
	resp := decodeData(t, w, &items)
	require.Len(t, items, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(21), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = doJSON(r, http.MethodGet, "/invoices?customer_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/invoices?status=draft", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "List", 1)
}

func TestInvoiceHandler_Get_BadID(t *testing.T) {
	svc := new(MockInvoiceService)
	w := doJSON(newInvoiceRouter(true, svc, nil), http.MethodGet, "/invoices/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceHandler_GetByNumber(t *testing.T) {
	svc := new(MockInvoiceService)
	id := uuid.New()
	svc.On("GetByNumber", mock.Anything, testClerk, "INV-0007").
		Return(&billing.InvoiceResponse{ID: id, InvoiceNumber: "INV-0007"}, nil)
	svc.On("GetByNumber", mock.Anything, testClerk, "INV-9999").Return(nil, shared.ErrNotFound)
	r := newInvoiceRouter(true, svc, nil)

	w := doJSON(r, http.MethodGet, "/invoices/number/INV-0007", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got billing.InvoiceResponse
	decodeData(t, w, &got)
	assert.Equal(t, id, got.ID)

	w = doJSON(r, http.MethodGet, "/invoices/number/INV-9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(newInvoiceRouter(false, svc, nil), http.MethodGet, "/invoices/number/INV-0007", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNumberOfCalls(t, "GetByNumber", 2)
}

func TestInvoiceHandler_CreditDues(t *testing.T) {
	svc := new(MockInvoiceService)
	svc.On("ListCreditDues", mock.Anything, testClerk, billing.DueFilterAll, 0, 0).
		Return(&shared.Paginated[billing.CreditDueResponse]{Page: 1, PageSize: 20}, nil)
	svc.On("ListCreditDues", mock.Anything, testClerk, billing.DueFilterOverdue, 1, 50).
		Return(&shared.Paginated[billing.CreditDueResponse]{
			Items: []billing.CreditDueResponse{{DaysUntilDue: -3, Overdue: true}},
			Total: 1, Page: 1, PageSize: 50, TotalPages: 1,
		}, nil)
	r := newInvoiceRouter(true, svc, nil)

	w := doJSON(r, http.MethodGet, "/credit-dues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var none []billing.CreditDueResponse
	decodeData(t, w, &none)
	assert.Empty(t, none)

	w = doJSON(r, http.MethodGet, "/credit-dues?filter=overdue&page=1&page_size=50", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dues []billing.CreditDueResponse
	decodeData(t, w, &dues)
	require.Len(t, dues, 1)
	assert.True(t, dues[0].Overdue)

	w = doJSON(r, http.MethodGet, "/credit-dues?filter=someday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_PDF(t *testing.T) {
	id := uuid.New()

	t.Run("streams the document", func(t *testing.T) {
		printer := new(MockInvoicePrinter)
		printer.On("RenderPDF", mock.Anything, testClerk, id).Return(&printing.PDFDocument{
			FileName: "INV-0007.pdf",
			Data:     []byte("%PDF-1.7 test"),
			Pages:    2,
		}, nil)

		w := doJSON(newInvoiceRouter(true, new(MockInvoiceService), printer), http.MethodGet, "/invoices/"+id.String()+"/pdf", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="INV-0007.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get("X-Page-Count"))
		assert.Equal(t, "%PDF-1.7 test", w.Body.String())
	})

	t.Run("renderer missing", func(t *testing.T) {
		printer := new(MockInvoicePrinter)
		printer.On("RenderPDF", mock.Anything, testClerk, id).
			Return(nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured"))

		w := doJSON(newInvoiceRouter(true, new(MockInvoiceService), printer), http.MethodGet, "/invoices/"+id.String()+"/pdf", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("html print view", func(t *testing.T) {
		printer := new(MockInvoicePrinter)
		printer.On("RenderHTML", mock.Anything, testClerk, id).Return("<html>INV-0007</html>", nil)

		w := doJSON(newInvoiceRouter(true, new(MockInvoiceService), printer), http.MethodGet, "/invoices/"+id.String()+"/print", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "INV-0007")
	})
}
