package v1

import (
	"net/http"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/gin-gonic/gin"
)

type ModifierHandler struct {
	service service.ModifierService
	log     *logger.Logger
}

func NewModifierHandler(service service.ModifierService, log *logger.Logger) *ModifierHandler {
	return &ModifierHandler{service: service, log: log}
}

// @Summary Create or replace a pricing modifier
// @Description Upsert the pricing modifier with the given ID
// @Tags Modifiers
// @Accept json
// @Produce json
// @Param id path string true "Modifier ID"
// @Param modifier body dto.UpsertModifierRequest true "Pricing modifier"
// @Success 200 {object} dto.ModifierResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /modifiers/{id} [put]
func (h *ModifierHandler) UpsertModifier(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Modifier ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpsertModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpsertModifier(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to upsert modifier", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a pricing modifier
// @Description Get a pricing modifier by ID
// @Tags Modifiers
// @Produce json
// @Param id path string true "Modifier ID"
// @Success 200 {object} dto.ModifierResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /modifiers/{id} [get]
func (h *ModifierHandler) GetModifier(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Modifier ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetModifier(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get modifier", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List pricing modifiers
// @Description List all pricing modifiers
// @Tags Modifiers
// @Produce json
// @Success 200 {object} dto.ListModifiersResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /modifiers [get]
func (h *ModifierHandler) ListModifiers(c *gin.Context) {
	resp, err := h.service.ListModifiers(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list modifiers", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Apply pricing modifiers
// @Description Price a base amount through the active modifier chain for a category
// @Tags Modifiers
// @Accept json
// @Produce json
// @Param request body dto.ApplyModifiersRequest true "Pricing request"
// @Success 200 {object} dto.ApplyModifiersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /modifiers/apply [post]
func (h *ModifierHandler) ApplyModifiers(c *gin.Context) {
	var req dto.ApplyModifiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ApplyModifiers(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to apply modifiers", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
