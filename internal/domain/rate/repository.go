package rate

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
)

// Repository is the persistence contract for rate rules. The history is
// append-only: rows are inserted and have their active flag flipped, never
// deleted or rewritten.
type Repository interface {
	// Create inserts a new rule version
	Create(ctx context.Context, rule *RateRule) error

	// Get returns a rule by id, including inactive historical versions
	Get(ctx context.Context, id string) (*RateRule, error)

	// GetActiveRule returns the rule with active=true and effective_from <= asOf
	// for the offer type
	GetActiveRule(ctx context.Context, offerType types.OfferType, asOf time.Time) (*RateRule, error)

	// ListActive returns the currently active rule per offer type
	ListActive(ctx context.Context) ([]*RateRule, error)

	// ListByOfferType returns the full version history for an offer type,
	// newest first
	ListByOfferType(ctx context.Context, offerType types.OfferType) ([]*RateRule, error)

	// SetActive flips a rule's active flag. The expectedVersion must match the
	// stored version or the call fails with a version conflict; deactivatedAt
	// bounds the retired rule's effective period when deactivating.
	SetActive(ctx context.Context, id string, active bool, expectedVersion int, deactivatedAt time.Time) error
}
