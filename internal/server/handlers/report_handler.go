package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/service/reporting"
	"github.com/mamadbah2/fuelstation/internal/service/station"
)

// ReportHandler serves the computed sales and variance reports.
type ReportHandler struct {
	station   *station.Service
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(stationSvc *station.Service, reportingSvc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{station: stationSvc, reporting: reportingSvc, logger: logger}
}

// Sales aggregates every DSR dated within ?from= and ?to= (both optional).
func (h *ReportHandler) Sales(c *gin.Context) {
	from, err := dateQuery(c, "from")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	to, err := dateQuery(c, "to")
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	summary, err := h.station.PeriodSummary(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) Variance(c *gin.Context) {
	variances, err := h.station.VarianceReport(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": h.station.Today(), "tanks": variances})
}

// VarianceXLSX downloads the variance report as a workbook.
func (h *ReportHandler) VarianceXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reporting.WriteVarianceXLSX(c.Request.Context(), &buf); err != nil {
		writeError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("variance-%s.xlsx", h.station.Today())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, reporting.XLSXContentType, buf.Bytes())
}
