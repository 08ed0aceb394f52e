package offer

import (
	"time"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// BillingContext captures everything the commission engine needs about an
// offer. It is written once when the offer enters final review and is
// read-only afterward; SubmittedAt pins the rate rule version used for the
// whole review cycle.
type BillingContext struct {
	OfferID     string          `json:"offer_id"`
	OfferType   types.OfferType `json:"offer_type"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	SubmittedAt time.Time       `json:"submitted_at"`

	// SaleAmount is only meaningful for gift_card offers. A gift_card
	// context without a sale amount defers commission to per-sale
	// computation.
	SaleAmount *decimal.Decimal `json:"sale_amount,omitempty"`

	types.BaseModel
}

// Validate validates the billing context
func (c *BillingContext) Validate() error {
	if c.OfferID == "" {
		return ierr.NewError("offer_id is required").
			WithHint("Offer ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := c.OfferType.Validate(); err != nil {
		return err
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return ierr.NewError("start_date and end_date are required").
			WithHint("Offer date range is required").
			Mark(ierr.ErrValidation)
	}
	if c.EndDate.Before(c.StartDate) {
		return ierr.NewError("end_date is before start_date").
			WithHint("Offer end date must not precede the start date").
			WithReportableDetails(map[string]interface{}{
				"start_date": c.StartDate,
				"end_date":   c.EndDate,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.SaleAmount != nil && c.SaleAmount.IsNegative() {
		return ierr.NewError("sale_amount must be non-negative").
			WithHint("Sale amount cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Duration returns the offer's date span
func (c *BillingContext) Duration() time.Duration {
	return c.EndDate.Sub(c.StartDate)
}
