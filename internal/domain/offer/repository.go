package offer

import (
	"context"
)

// Repository is the persistence contract for offer billing contexts
type Repository interface {
	// Create stores the context; a context for the same offer must not exist
	Create(ctx context.Context, billingCtx *BillingContext) error

	// Get returns the context for an offer
	Get(ctx context.Context, offerID string) (*BillingContext, error)
}
