package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/service/station"
)

// StationHandler exposes the station ledgers over HTTP.
type StationHandler struct {
	svc    *station.Service
	logger *zap.Logger
}

// NewStationHandler constructs the HTTP handler adapter.
func NewStationHandler(svc *station.Service, logger *zap.Logger) *StationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StationHandler{svc: svc, logger: logger}
}

func (h *StationHandler) ListFuels(c *gin.Context) {
	fuels, err := h.svc.ListFuels(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, fuels)
}

func (h *StationHandler) CreateFuel(c *gin.Context) {
	var fuel models.Fuel
	if err := c.ShouldBindJSON(&fuel); err != nil {
		badBody(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateFuel(c.Request.Context(), fuel)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StationHandler) ListTanks(c *gin.Context) {
	tanks, err := h.svc.ListTanks(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tanks)
}

func (h *StationHandler) CreateTank(c *gin.Context) {
	var tank models.Tank
	if err := c.ShouldBindJSON(&tank); err != nil {
		badBody(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateTank(c.Request.Context(), tank)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *StationHandler) ListPrices(c *gin.Context) {
	entries, err := h.svc.ListPriceEntries(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *StationHandler) AddPrice(c *gin.Context) {
	var entry models.FuelPriceEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badBody(c, h.logger, err)
		return
	}
	added, err := h.svc.AddPriceEntry(c.Request.Context(), entry)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *StationHandler) DeletePrice(c *gin.Context) {
	removed, err := h.svc.DeletePriceEntry(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// CurrentPrice resolves the price of a fuel on ?date=, today by default.
func (h *StationHandler) CurrentPrice(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	price, err := h.svc.CurrentPrice(c.Request.Context(), c.Param("fuelID"), date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h *StationHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.svc.ListPurchases(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *StationHandler) RecordPurchase(c *gin.Context) {
	var purchase models.FuelPurchase
	if err := c.ShouldBindJSON(&purchase); err != nil {
		badBody(c, h.logger, err)
		return
	}
	saved, err := h.svc.RecordPurchase(c.Request.Context(), purchase)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *StationHandler) DeletePurchase(c *gin.Context) {
	deleted, err := h.svc.DeletePurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// ListDips lists dip entries, optionally filtered by ?tank_id=.
func (h *StationHandler) ListDips(c *gin.Context) {
	dips, err := h.svc.ListDipEntries(c.Request.Context(), c.Query("tank_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dips)
}

func (h *StationHandler) RecordDip(c *gin.Context) {
	var in station.DipInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c, h.logger, err)
		return
	}
	entry, err := h.svc.RecordDip(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *StationHandler) ListSalesReports(c *gin.Context) {
	reports, err := h.svc.ListSalesReports(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *StationHandler) SubmitSalesReport(c *gin.Context) {
	var report models.SalesReport
	if err := c.ShouldBindJSON(&report); err != nil {
		badBody(c, h.logger, err)
		return
	}
	saved, summary, err := h.svc.SubmitSalesReport(c.Request.Context(), report)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": saved, "summary": summary})
}

func (h *StationHandler) SalesReportSummary(c *gin.Context) {
	summary, err := h.svc.ReportSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StationHandler) AccountLedger(c *gin.Context) {
	account := c.Param("account")
	lines, balance, err := h.svc.AccountLedger(c.Request.Context(), account)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if lines == nil {
		lines = []models.LedgerLine{}
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "entries": lines, "balance": balance})
}

func (h *StationHandler) RecordAccountEntry(c *gin.Context) {
	var entry models.AccountEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badBody(c, h.logger, err)
		return
	}
	entry.Account = c.Param("account")
	saved, err := h.svc.RecordAccountEntry(c.Request.Context(), entry)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}
