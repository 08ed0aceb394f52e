package ledger

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// EntryFilter narrows aggregation and listing reads over final entries
type EntryFilter struct {
	*types.QueryFilter

	From      *time.Time       `json:"from,omitempty" form:"from"`
	To        *time.Time       `json:"to,omitempty" form:"to"`
	OfferType *types.OfferType `json:"offer_type,omitempty" form:"offer_type"`
}

// NewEntryFilter creates a filter with default pagination
func NewEntryFilter() *EntryFilter {
	return &EntryFilter{QueryFilter: types.NewDefaultQueryFilter()}
}

// Validate validates the filter
func (f *EntryFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.OfferType != nil {
		if err := f.OfferType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether a final entry falls inside the filter window
func (f *EntryFilter) Matches(e *CommissionEntry) bool {
	if f.From != nil && e.ComputedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.ComputedAt.After(*f.To) {
		return false
	}
	if f.OfferType != nil && e.OfferType != *f.OfferType {
		return false
	}
	return true
}

// Aggregate is one row of a commission aggregation, summed from stored
// amounts only
type Aggregate struct {
	OfferType   types.OfferType `json:"offer_type"`
	EntryCount  int             `json:"entry_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Repository is the persistence contract for the commission ledger
type Repository interface {
	// UpsertDraft stores or replaces the draft entry for an offer
	UpsertDraft(ctx context.Context, entry *CommissionEntry) error

	// GetDraft returns the current draft entry for an offer
	GetDraft(ctx context.Context, offerID string) (*CommissionEntry, error)

	// PromoteDraft flips the offer's draft entry to final. Fails with an
	// already-exists error if a final entry is present for the offer.
	PromoteDraft(ctx context.Context, offerID string, finalizedAt time.Time) (*CommissionEntry, error)

	// CreateFinal appends a final entry directly, used for per-sale gift
	// card commissions. Uniqueness is offer id + sale ref.
	CreateFinal(ctx context.Context, entry *CommissionEntry) error

	// GetFinal returns the final entry for an offer
	GetFinal(ctx context.Context, offerID string) (*CommissionEntry, error)

	// ListFinal returns final entries matching the filter, newest first
	ListFinal(ctx context.Context, filter *EntryFilter) ([]*CommissionEntry, error)

	// AggregateFinal sums stored amounts of final entries grouped by offer
	// type. It must never re-derive amounts from the rate registry.
	AggregateFinal(ctx context.Context, filter *EntryFilter) ([]*Aggregate, error)
}
