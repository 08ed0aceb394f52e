package rate

import (
	"time"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// RateRule is one version of the billing rule for an offer type. Rules are
// append-only: editing a rule inserts a new version and deactivates the
// prior one, so ledger entries that reference a rule id stay reproducible.
type RateRule struct {
	ID            string            `json:"id"`
	OfferType     types.OfferType   `json:"offer_type"`
	BillingUnit   types.BillingUnit `json:"billing_unit"`
	RateValue     decimal.Decimal   `json:"rate_value"`
	Active        bool              `json:"active"`
	EffectiveFrom time.Time         `json:"effective_from"`
	EffectiveTo   *time.Time        `json:"effective_to,omitempty"`
	Description   string            `json:"description,omitempty"`

	// Version guards concurrent edits of the same offer type. The losing
	// writer of a concurrent upsert observes a stale version and fails.
	Version int `json:"version"`

	types.BaseModel
}

// Validate validates the rate rule
func (r *RateRule) Validate() error {
	if err := r.OfferType.Validate(); err != nil {
		return err
	}
	if err := r.BillingUnit.Validate(); err != nil {
		return err
	}
	if r.RateValue.IsNegative() {
		return ierr.NewError("rate_value must be non-negative").
			WithHint("Rate value cannot be negative").
			WithReportableDetails(map[string]interface{}{
				"rate_value": r.RateValue.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if r.EffectiveFrom.IsZero() {
		return ierr.NewError("effective_from is required").
			WithHint("Effective from timestamp is required").
			Mark(ierr.ErrValidation)
	}
	if r.BillingUnit != r.OfferType.DefaultBillingUnit() {
		return ierr.NewErrorf("billing unit %s is not valid for offer type %s", r.BillingUnit, r.OfferType).
			WithHint("Billing unit does not match the offer type's pricing scheme").
			WithReportableDetails(map[string]interface{}{
				"offer_type":   r.OfferType,
				"billing_unit": r.BillingUnit,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InEffect reports whether the rule was in effect at the given instant.
// A retired rule (effective_to set) still covers instants inside its
// effective period, which keeps submission-time lookups stable while rules
// are edited mid-review.
func (r *RateRule) InEffect(asOf time.Time) bool {
	if r.EffectiveFrom.After(asOf) {
		return false
	}
	if r.EffectiveTo != nil {
		return r.EffectiveTo.After(asOf)
	}
	return r.Active
}
