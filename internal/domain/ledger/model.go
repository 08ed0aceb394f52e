package ledger

import (
	"time"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// BreakdownLine is one labeled step of a commission calculation. The
// breakdown is stored with the entry and displayed verbatim, it is never
// recomputed between preview and final.
type BreakdownLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CommissionEntry is one commission computation for an offer. Draft entries
// are replaceable while the offer is under review; a final entry is
// immutable and unique per offer (per sale ref for gift card sales).
type CommissionEntry struct {
	ID      string `json:"id"`
	OfferID string `json:"offer_id"`

	// SaleRef is set only on per-sale gift card entries, empty otherwise
	SaleRef string `json:"sale_ref,omitempty"`

	// RuleID is the exact rule version the amount was computed from.
	// Recomputations for reporting must use this id, never the live registry.
	RuleID string `json:"rule_id"`

	OfferType      types.OfferType             `json:"offer_type"`
	BillableUnits  decimal.Decimal             `json:"billable_units"`
	ComputedAmount decimal.Decimal             `json:"computed_amount"`
	Breakdown      []BreakdownLine             `json:"breakdown"`
	ComputedAt     time.Time                   `json:"computed_at"`
	EntryStatus    types.CommissionEntryStatus `json:"entry_status"`

	types.BaseModel
}

// Validate validates the commission entry
func (e *CommissionEntry) Validate() error {
	if e.OfferID == "" {
		return ierr.NewError("offer_id is required").
			WithHint("Offer ID is required").
			Mark(ierr.ErrValidation)
	}
	if e.RuleID == "" {
		return ierr.NewError("rule_id is required").
			WithHint("Commission entries must reference the rule version used").
			Mark(ierr.ErrValidation)
	}
	if e.ComputedAmount.IsNegative() {
		return ierr.NewError("computed_amount must be non-negative").
			WithHint("Commission amount cannot be negative").
			WithReportableDetails(map[string]interface{}{
				"offer_id":        e.OfferID,
				"computed_amount": e.ComputedAmount.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}
