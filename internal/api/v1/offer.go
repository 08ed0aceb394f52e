package v1

import (
	"net/http"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	commission service.CommissionService
	approval   service.ApprovalService
	log        *logger.Logger
}

func NewOfferHandler(commission service.CommissionService, approval service.ApprovalService, log *logger.Logger) *OfferHandler {
	return &OfferHandler{commission: commission, approval: approval, log: log}
}

// @Summary Register an offer for commission review
// @Description Create the billing context and draft approval for an offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param context body dto.CreateBillingContextRequest true "Billing context"
// @Success 201 {object} dto.BillingContextResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /offers [post]
func (h *OfferHandler) CreateBillingContext(c *gin.Context) {
	var req dto.CreateBillingContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.commission.CreateBillingContext(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create billing context", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an offer's billing context
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.BillingContextResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /offers/{id} [get]
func (h *OfferHandler) GetBillingContext(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.commission.GetBillingContext(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get billing context", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview an offer's commission
// @Description Compute the draft commission with the rule pinned at submission time
// @Tags Offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.CommissionEntryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/preview-commission [post]
func (h *OfferHandler) PreviewCommission(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.commission.PreviewCommission(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to preview commission", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Submit an offer for review
// @Tags Approvals
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/submit [post]
func (h *OfferHandler) SubmitForReview(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.approval.SubmitForReview(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to submit offer for review", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Approve an offer
// @Description Finalize the offer's commission entry and mark the approval terminal
// @Tags Approvals
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/approve [post]
func (h *OfferHandler) Approve(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.approval.Approve(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to approve offer", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Request a revision
// @Description Send the offer back for changes; exceeding the revision cap rejects it
// @Tags Approvals
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/request-revision [post]
func (h *OfferHandler) RequestRevision(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.approval.RequestRevision(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to request revision", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Reject an offer
// @Tags Approvals
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/reject [post]
func (h *OfferHandler) Reject(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.approval.Reject(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to reject offer", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an offer's approval state
// @Tags Approvals
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /offers/{id}/approval [get]
func (h *OfferHandler) GetApproval(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	resp, err := h.approval.GetApproval(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get approval", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record a gift card sale
// @Description Append a final per-sale commission entry for an approved gift card offer
// @Tags Offers
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param sale body dto.GiftCardSaleRequest true "Sale"
// @Success 201 {object} dto.CommissionEntryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /offers/{id}/gift-card-sales [post]
func (h *OfferHandler) RecordGiftCardSale(c *gin.Context) {
	id := offerID(c)
	if id == "" {
		return
	}

	var req dto.GiftCardSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.commission.RecordGiftCardSale(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to record gift card sale", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// offerID extracts the offer id path param, writing the validation error
// itself when missing
func offerID(c *gin.Context) string {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Offer ID is required").
			Mark(ierr.ErrValidation))
	}
	return id
}
