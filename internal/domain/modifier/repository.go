package modifier

import (
	"context"
)

// Repository is the persistence contract for pricing modifiers
type Repository interface {
	// Upsert inserts the modifier or replaces the row with the same id
	Upsert(ctx context.Context, m *PricingModifier) error

	// Get returns a modifier by id
	Get(ctx context.Context, id string) (*PricingModifier, error)

	// List returns all modifiers, ascending id
	List(ctx context.Context) ([]*PricingModifier, error)

	// ListActiveByCategory returns active modifiers covering the category,
	// ascending id
	ListActiveByCategory(ctx context.Context, category string) ([]*PricingModifier, error)
}
