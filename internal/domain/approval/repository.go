package approval

import (
	"context"
)

// Repository is the persistence contract for approval state rows
type Repository interface {
	// Create stores a new approval in its initial state
	Create(ctx context.Context, a *Approval) error

	// Get returns the approval for an offer
	Get(ctx context.Context, offerID string) (*Approval, error)

	// Update persists a state transition
	Update(ctx context.Context, a *Approval) error
}
