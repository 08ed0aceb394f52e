package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

func NewReportHandler(service service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: service, log: log}
}

// @Summary Commission report
// @Description Aggregate finalized commission entries by offer type over a time window
// @Tags Reports
// @Produce json
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param offer_type query string false "Offer type filter"
// @Success 200 {object} dto.CommissionReportResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /reports/commissions [get]
func (h *ReportHandler) GetCommissionReport(c *gin.Context) {
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.GetCommissionReport(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to build commission report", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List finalized commission entries
// @Tags Reports
// @Produce json
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param offer_type query string false "Offer type filter"
// @Success 200 {object} dto.ListCommissionEntriesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /reports/commissions/entries [get]
func (h *ReportHandler) ListFinalEntries(c *gin.Context) {
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	resp, err := h.service.ListFinalEntries(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to list commission entries", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Export commission entries as CSV
// @Tags Reports
// @Produce text/csv
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param offer_type query string false "Offer type filter"
// @Success 200 {string} string "CSV payload"
// @Failure 400 {object} ierr.ErrorResponse
// @Router /reports/commissions/export [get]
func (h *ReportHandler) ExportCommissionCSV(c *gin.Context) {
	req, ok := h.bindReportRequest(c)
	if !ok {
		return
	}

	data, err := h.service.ExportCommissionCSV(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to export commission CSV", "error", err)
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("commissions_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *ReportHandler) bindReportRequest(c *gin.Context) (*dto.CommissionReportRequest, bool) {
	var req dto.CommissionReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Error("Failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid report filters").
			Mark(ierr.ErrValidation))
		return nil, false
	}
	return &req, true
}
