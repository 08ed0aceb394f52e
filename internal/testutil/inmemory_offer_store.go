package testutil

import (
	"context"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/samber/lo"
)

// InMemoryOfferStore implements offer.Repository
type InMemoryOfferStore struct {
	*InMemoryStore[*offer.BillingContext]
}

// NewInMemoryOfferStore creates a new in-memory billing context store
func NewInMemoryOfferStore() *InMemoryOfferStore {
	return &InMemoryOfferStore{
		InMemoryStore: NewInMemoryStore[*offer.BillingContext](),
	}
}

func copyBillingContext(c *offer.BillingContext) *offer.BillingContext {
	if c == nil {
		return nil
	}
	copied := *c
	if c.SaleAmount != nil {
		copied.SaleAmount = lo.ToPtr(*c.SaleAmount)
	}
	return &copied
}

func (s *InMemoryOfferStore) Create(ctx context.Context, billingCtx *offer.BillingContext) error {
	if billingCtx == nil {
		return ierr.NewError("billing context cannot be nil").
			WithHint("Billing context cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, billingCtx.OfferID, copyBillingContext(billingCtx)); err != nil {
		return ierr.WithError(err).
			WithHint("A billing context already exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": billingCtx.OfferID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryOfferStore) Get(ctx context.Context, offerID string) (*offer.BillingContext, error) {
	billingCtx, err := s.InMemoryStore.Get(ctx, offerID)
	if err != nil {
		return nil, ierr.NewError("offer billing context not found").
			WithHint("No billing context exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyBillingContext(billingCtx), nil
}
