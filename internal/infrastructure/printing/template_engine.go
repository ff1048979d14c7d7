package printing

import (
	"bytes"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minimumInvoiceRows keeps short invoices from collapsing the line table
const minimumInvoiceRows = 5

// ShopView is the shop header and payment block of a printed invoice
type ShopView struct {
	Name          string
	Address       string
	City          string
	State         string
	Phone         string
	Email         string
	GSTIN         string
	LogoURL       string
	BankName      string
	AccountNumber string
	IFSCCode      string
	BankAddress   string
	UPIID         string
	UPIQRURL      string
	FooterText    string
}

// LineView is one printed invoice line
type LineView struct {
	Name     string
	HSNCode  string
	Quantity decimal.Decimal
	Unit     string
	Rate     decimal.Decimal
	Subtotal decimal.Decimal
}

// InvoiceView is everything the invoice template binds to
type InvoiceView struct {
	Shop            ShopView
	InvoiceNumber   string
	InvoiceDate     time.Time
	PaymentMode     string
	DueDate         *time.Time
	Cancelled       bool
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Lines           []LineView
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	RoundingOff     decimal.Decimal
	GrandTotal      decimal.Decimal
	AmountPaid      decimal.Decimal
	BalanceDue      decimal.Decimal
}

// TemplateEngine renders HTML templates with invoice formatting helpers
type TemplateEngine struct {
	funcMap template.FuncMap
	invoice *template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a template engine with the built-in invoice layout
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		funcMap: template.FuncMap{
			"money":         formatMoney,
			"quantity":      formatQuantity,
			"date":          formatDate,
			"amountInWords": AmountInWords,
			"upper":         upperCase,
			"blankRows":     blankRows,
			"inc":           func(i int) int { return i + 1 },
			"isZero":        func(d decimal.Decimal) bool { return d.IsZero() },
			"positive":      func(d decimal.Decimal) bool { return d.IsPositive() },
			"safeURL":       func(s string) template.URL { return template.URL(s) },
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.invoice = template.Must(template.New("invoice").Funcs(e.funcMap).Parse(invoiceTemplate))
	return e
}

// RenderInvoice renders the invoice layout for view
func (e *TemplateEngine) RenderInvoice(view *InvoiceView) (string, error) {
	if view == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "invoice view is nil", nil)
	}
	var buf bytes.Buffer
	if err := e.invoice.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// RenderString renders an ad-hoc template with the engine's functions
func (e *TemplateEngine) RenderString(name, content string, data interface{}) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}
	return buf.String(), nil
}

// formatMoney formats with the rupee sign and Indian digit grouping.
// Example: 1234567.5 -> "₹12,34,567.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, fracPart, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "₹" + groupIndian(intPart) + "." + fracPart
}

// groupIndian inserts separators as 12,34,567: the last three digits, then pairs
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var b strings.Builder
	for i, c := range head {
		if i > 0 && (len(head)-i)%2 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String() + "," + tail
}

// upperCase builds a Caser per call since casers are not goroutine safe
func upperCase(s string) string {
	return cases.Upper(language.English).String(s)
}

func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

// formatDate formats as dd-mm-yy
func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("02-01-06")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02-01-06")
	}
	return ""
}

// blankRows returns placeholders that pad the line table to minimumInvoiceRows
func blankRows(lines int) []struct{} {
	return make([]struct{}, max(0, minimumInvoiceRows-lines))
}
