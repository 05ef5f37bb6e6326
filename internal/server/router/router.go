package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/server/handlers"
)

// Handlers groups the HTTP adapters. Extraction and Webhook are nil when
// their integration is not configured.
type Handlers struct {
	Station    *handlers.StationHandler
	Reports    *handlers.ReportHandler
	Extraction *handlers.ExtractionHandler
	Webhook    *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/fuels", h.Station.ListFuels)
		api.POST("/fuels", h.Station.CreateFuel)

		api.GET("/tanks", h.Station.ListTanks)
		api.POST("/tanks", h.Station.CreateTank)

		api.GET("/prices", h.Station.ListPrices)
		api.POST("/prices", h.Station.AddPrice)
		api.DELETE("/prices/:date", h.Station.DeletePrice)
		api.GET("/prices/:fuelID/current", h.Station.CurrentPrice)

		api.GET("/purchases", h.Station.ListPurchases)
		api.POST("/purchases", h.Station.RecordPurchase)
		api.DELETE("/purchases/:id", h.Station.DeletePurchase)

		api.GET("/dips", h.Station.ListDips)
		api.POST("/dips", h.Station.RecordDip)

		api.GET("/sales-reports", h.Station.ListSalesReports)
		api.POST("/sales-reports", h.Station.SubmitSalesReport)
		api.GET("/sales-reports/:id/summary", h.Station.SalesReportSummary)

		api.GET("/reports/sales", h.Reports.Sales)
		api.GET("/reports/variance", h.Reports.Variance)
		api.GET("/reports/variance.xlsx", h.Reports.VarianceXLSX)

		api.GET("/accounts/:account/ledger", h.Station.AccountLedger)
		api.POST("/accounts/:account/entries", h.Station.RecordAccountEntry)

		if h.Extraction != nil {
			api.POST("/extract/:kind", h.Extraction.Extract)
		} else {
			api.POST("/extract/:kind", handlers.Unavailable("document extraction is not configured"))
		}

		if h.Webhook != nil {
			api.POST("/messages", h.Webhook.SendMessage)
		}
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
	} else {
		r.Any("/webhook", handlers.Unavailable("whatsapp is not configured"))
	}

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
