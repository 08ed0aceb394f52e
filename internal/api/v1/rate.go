package v1

import (
	"net/http"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	service service.RateService
	log     *logger.Logger
}

func NewRateHandler(service service.RateService, log *logger.Logger) *RateHandler {
	return &RateHandler{service: service, log: log}
}

// @Summary Create a new rate rule version
// @Description Append a new rate rule for the offer type, retiring the prior active rule
// @Tags Rates
// @Accept json
// @Produce json
// @Param offer_type path string true "Offer type"
// @Param rule body dto.UpsertRateRuleRequest true "Rate rule"
// @Success 201 {object} dto.RateRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /rates/{offer_type} [put]
func (h *RateHandler) UpsertRule(c *gin.Context) {
	offerType := types.OfferType(c.Param("offer_type"))

	var req dto.UpsertRateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpsertRule(c.Request.Context(), offerType, &req)
	if err != nil {
		h.log.Error("Failed to upsert rate rule", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Toggle a rate rule
// @Description Activate or deactivate a rate rule under optimistic concurrency
// @Tags Rates
// @Accept json
// @Produce json
// @Param id path string true "Rate rule ID"
// @Param toggle body dto.ToggleRateRuleRequest true "Toggle request"
// @Success 200 {object} dto.RateRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /rates/{id}/active [patch]
func (h *RateHandler) ToggleRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Rate rule ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.ToggleRateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ToggleRule(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to toggle rate rule", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List active rate rules
// @Description List the currently active rule per offer type
// @Tags Rates
// @Produce json
// @Success 200 {object} dto.ListRateRulesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /rates [get]
func (h *RateHandler) ListActiveRules(c *gin.Context) {
	resp, err := h.service.ListActiveRules(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list rate rules", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get rate rule history
// @Description List every rule version for an offer type, newest first
// @Tags Rates
// @Produce json
// @Param offer_type path string true "Offer type"
// @Success 200 {object} dto.ListRateRulesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /rates/{offer_type}/history [get]
func (h *RateHandler) GetRuleHistory(c *gin.Context) {
	offerType := types.OfferType(c.Param("offer_type"))

	resp, err := h.service.GetRuleHistory(c.Request.Context(), offerType)
	if err != nil {
		h.log.Error("Failed to get rate rule history", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Resolve the active rate rule
// @Description Resolve the rule in effect for an offer type, optionally at a point in time
// @Tags Rates
// @Produce json
// @Param offer_type path string true "Offer type"
// @Param as_of query string false "Resolution time (RFC 3339), defaults to now"
// @Success 200 {object} dto.RateRuleResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /rates/{offer_type}/active [get]
func (h *RateHandler) GetActiveRule(c *gin.Context) {
	offerType := types.OfferType(c.Param("offer_type"))

	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("as_of must be an RFC 3339 timestamp").
				Mark(ierr.ErrValidation))
			return
		}
		asOf = parsed.UTC()
	}

	rule, err := h.service.GetActiveRule(c.Request.Context(), offerType, asOf)
	if err != nil {
		h.log.Error("Failed to resolve active rate rule", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRateRuleResponse(rule))
}
