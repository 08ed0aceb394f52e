package dto

import (
	"context"
	"time"

	domainApproval "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// CreateBillingContextRequest registers an offer for commission review
type CreateBillingContextRequest struct {
	OfferID     string            `json:"offer_id" validate:"required"`
	OfferType   types.OfferType   `json:"offer_type" validate:"required"`
	SubjectKind types.SubjectKind `json:"subject_kind" validate:"required"`
	StartDate   time.Time         `json:"start_date" validate:"required"`
	EndDate     time.Time         `json:"end_date" validate:"required"`
	SaleAmount  *decimal.Decimal  `json:"sale_amount,omitempty"`
}

// Validate validates the request
func (r *CreateBillingContextRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := r.OfferType.Validate(); err != nil {
		return err
	}
	return r.SubjectKind.Validate()
}

// ToBillingContext builds the domain billing context, pinning the submission
// time used for rate rule resolution
func (r *CreateBillingContextRequest) ToBillingContext(ctx context.Context, submittedAt time.Time) *domainOffer.BillingContext {
	return &domainOffer.BillingContext{
		OfferID:     r.OfferID,
		OfferType:   r.OfferType,
		StartDate:   r.StartDate.UTC(),
		EndDate:     r.EndDate.UTC(),
		SubmittedAt: submittedAt,
		SaleAmount:  r.SaleAmount,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// ToApproval builds the initial draft approval for the offer
func (r *CreateBillingContextRequest) ToApproval(ctx context.Context, submittedAt time.Time) *domainApproval.Approval {
	return &domainApproval.Approval{
		OfferID:     r.OfferID,
		SubjectKind: r.SubjectKind,
		State:       types.ApprovalStateDraft,
		Revisions:   0,
		SubmittedAt: submittedAt,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// BillingContextResponse is a billing context in API responses
type BillingContextResponse struct {
	OfferID     string           `json:"offer_id"`
	OfferType   types.OfferType  `json:"offer_type"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	SubmittedAt time.Time        `json:"submitted_at"`
	SaleAmount  *decimal.Decimal `json:"sale_amount,omitempty"`
}

// NewBillingContextResponse converts a billing context to its API representation
func NewBillingContextResponse(bc *domainOffer.BillingContext) *BillingContextResponse {
	if bc == nil {
		return nil
	}
	return &BillingContextResponse{
		OfferID:     bc.OfferID,
		OfferType:   bc.OfferType,
		StartDate:   bc.StartDate,
		EndDate:     bc.EndDate,
		SubmittedAt: bc.SubmittedAt,
		SaleAmount:  bc.SaleAmount,
	}
}

// ApprovalResponse is an approval in API responses
type ApprovalResponse struct {
	OfferID     string              `json:"offer_id"`
	SubjectKind types.SubjectKind   `json:"subject_kind"`
	State       types.ApprovalState `json:"state"`
	Revisions   int                 `json:"revisions"`
	SubmittedAt time.Time           `json:"submitted_at"`

	// Entry is set when an approval decision produced a final commission entry
	Entry *CommissionEntryResponse `json:"commission_entry,omitempty"`
}

// NewApprovalResponse converts an approval to its API representation
func NewApprovalResponse(a *domainApproval.Approval, entry *domainLedger.CommissionEntry) *ApprovalResponse {
	if a == nil {
		return nil
	}
	return &ApprovalResponse{
		OfferID:     a.OfferID,
		SubjectKind: a.SubjectKind,
		State:       a.State,
		Revisions:   a.Revisions,
		SubmittedAt: a.SubmittedAt,
		Entry:       NewCommissionEntryResponse(entry),
	}
}

// GiftCardSaleRequest records a single gift card sale for per-sale commission
type GiftCardSaleRequest struct {
	SaleRef    string          `json:"sale_ref" validate:"required"`
	SaleAmount decimal.Decimal `json:"sale_amount" validate:"required"`
}

// Validate validates the request
func (r *GiftCardSaleRequest) Validate() error {
	return validateStruct(r)
}

// BreakdownLineResponse is one labeled step of the calculation trail
type BreakdownLineResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CommissionEntryResponse is a commission entry in API responses
type CommissionEntryResponse struct {
	ID             string                      `json:"id"`
	OfferID        string                      `json:"offer_id"`
	SaleRef        string                      `json:"sale_ref,omitempty"`
	RuleID         string                      `json:"rule_id"`
	OfferType      types.OfferType             `json:"offer_type"`
	BillableUnits  decimal.Decimal             `json:"billable_units"`
	ComputedAmount decimal.Decimal             `json:"computed_amount"`
	Breakdown      []*BreakdownLineResponse    `json:"breakdown"`
	ComputedAt     time.Time                   `json:"computed_at"`
	EntryStatus    types.CommissionEntryStatus `json:"entry_status"`
}

// NewCommissionEntryResponse converts a commission entry to its API representation
func NewCommissionEntryResponse(e *domainLedger.CommissionEntry) *CommissionEntryResponse {
	if e == nil {
		return nil
	}
	breakdown := make([]*BreakdownLineResponse, 0, len(e.Breakdown))
	for _, line := range e.Breakdown {
		breakdown = append(breakdown, &BreakdownLineResponse{Label: line.Label, Value: line.Value})
	}
	return &CommissionEntryResponse{
		ID:             e.ID,
		OfferID:        e.OfferID,
		SaleRef:        e.SaleRef,
		RuleID:         e.RuleID,
		OfferType:      e.OfferType,
		BillableUnits:  e.BillableUnits,
		ComputedAmount: e.ComputedAmount,
		Breakdown:      breakdown,
		ComputedAt:     e.ComputedAt,
		EntryStatus:    e.EntryStatus,
	}
}

// ListCommissionEntriesResponse is the envelope for ledger listings
type ListCommissionEntriesResponse = types.ListResponse[*CommissionEntryResponse]
