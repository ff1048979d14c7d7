package router

import (
	"net/http"

	"github.com/billmaster/backend/internal/infrastructure/logger"
	"github.com/billmaster/backend/internal/interfaces/http/dto"
	"github.com/billmaster/backend/internal/interfaces/http/handler"
	"github.com/billmaster/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// APIPrefix is where every authenticated route lives
const APIPrefix = "/api/v1"

// Options configures the engine's middleware chain
type Options struct {
	ServiceName    string
	Logger         *zap.Logger
	Verifier       middleware.ActorVerifier
	Meter          metric.Meter // nil disables HTTP metrics
	TracingEnabled bool
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
}

// Handlers are the route targets
type Handlers struct {
	Invoice  *handler.InvoiceHandler
	Report   *handler.ReportHandler
	Settings *handler.SettingsHandler
	Item     *handler.ItemHandler
	Category *handler.CategoryHandler
	Customer *handler.CustomerHandler
	Health   *handler.HealthHandler
}

// New builds the gin engine with the full middleware chain and all routes
func New(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(opts.ServiceName, opts.TracingEnabled),
		logger.GinMiddleware(log),
		middleware.HTTPMetrics(opts.Meter, log),
		middleware.Secure(),
		middleware.CORSWithConfig(opts.CORS),
		middleware.BodyLimit(opts.MaxBodySize),
	)

	engine.GET("/health", h.Health.Health)

	api := engine.Group(APIPrefix)
	api.GET("/health", h.Health.Health)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(opts.Verifier, log), middleware.SpanEnricher())
	for _, area := range apiAreas(h) {
		area.Mount(authed)
		log.Debug("Mounted API area",
			zap.String("area", area.Name()),
			zap.Strings("routes", area.Paths()))
	}
	return engine, nil
}

func apiAreas(h Handlers) []*Area {
	invoices := NewArea("invoices", "/invoices").
		POST("/quote", h.Invoice.Quote).
		POST("", h.Invoice.Create).
		GET("", h.Invoice.List).
		GET("/number/:number", h.Invoice.GetByNumber).
		GET("/:id", h.Invoice.Get).
		GET("/:id/pdf", h.Invoice.PDF).
		GET("/:id/print", h.Invoice.Print).
		POST("/:id/payments", h.Invoice.RecordPayment).
		POST("/:id/cancellation", h.Invoice.RequestCancellation).
		POST("/:id/cancellation/approve", h.Invoice.ApproveCancellation).
		POST("/:id/cancellation/reject", h.Invoice.RejectCancellation)

	dues := NewArea("credit-dues", "/credit-dues").
		GET("", h.Invoice.CreditDues)

	reports := NewArea("reports", "/reports").
		GET("/sales", h.Report.Sales).
		GET("/dashboard", h.Report.Dashboard).
		GET("/customers", h.Report.Customers).
		GET("/inventory", h.Report.Inventory).
		GET("/low-stock", h.Report.LowStock)

	auditLogs := NewArea("audit-logs", "/audit-logs").
		GET("", h.Report.AuditLogs)

	settings := NewArea("settings", "/settings").
		GET("", h.Settings.Get).
		PUT("", h.Settings.Update).
		POST("/logo", h.Settings.UploadLogo).
		POST("/upi-qr", h.Settings.UploadUPIQR)

	items := NewArea("items", "/items").
		POST("", h.Item.Create).
		GET("", h.Item.List).
		GET("/:id", h.Item.Get).
		PUT("/:id", h.Item.Update).
		DELETE("/:id", h.Item.Delete)

	categories := NewArea("categories", "/categories").
		POST("", h.Category.Create).
		GET("", h.Category.List).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	customers := NewArea("customers", "/customers").
		POST("", h.Customer.Create).
		GET("", h.Customer.List).
		GET("/:id", h.Customer.Get).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete)

	return []*Area{invoices, dues, reports, auditLogs, settings, items, categories, customers}
}
