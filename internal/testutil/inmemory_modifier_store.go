package testutil

import (
	"context"
	"sort"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// InMemoryModifierStore implements modifier.Repository
type InMemoryModifierStore struct {
	*InMemoryStore[*modifier.PricingModifier]
}

// NewInMemoryModifierStore creates a new in-memory pricing modifier store
func NewInMemoryModifierStore() *InMemoryModifierStore {
	return &InMemoryModifierStore{
		InMemoryStore: NewInMemoryStore[*modifier.PricingModifier](),
	}
}

func copyModifier(m *modifier.PricingModifier) *modifier.PricingModifier {
	if m == nil {
		return nil
	}
	copied := *m
	copied.ApplicableCategories = append([]string{}, m.ApplicableCategories...)
	return &copied
}

func (s *InMemoryModifierStore) Upsert(ctx context.Context, m *modifier.PricingModifier) error {
	if m == nil {
		return ierr.NewError("pricing modifier cannot be nil").
			WithHint("Pricing modifier cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.InMemoryStore.Set(ctx, m.ID, copyModifier(m))
	return nil
}

func (s *InMemoryModifierStore) Get(ctx context.Context, id string) (*modifier.PricingModifier, error) {
	m, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("pricing modifier not found").
			WithHint("Pricing modifier not found").
			WithReportableDetails(map[string]interface{}{
				"modifier_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyModifier(m), nil
}

func (s *InMemoryModifierStore) List(ctx context.Context) ([]*modifier.PricingModifier, error) {
	modifiers := make([]*modifier.PricingModifier, 0)
	for _, m := range s.InMemoryStore.All(ctx) {
		modifiers = append(modifiers, copyModifier(m))
	}
	sort.Slice(modifiers, func(i, j int) bool {
		return modifiers[i].ID < modifiers[j].ID
	})
	return modifiers, nil
}

func (s *InMemoryModifierStore) ListActiveByCategory(ctx context.Context, category string) ([]*modifier.PricingModifier, error) {
	modifiers := make([]*modifier.PricingModifier, 0)
	for _, m := range s.InMemoryStore.All(ctx) {
		if m.Active && m.AppliesTo(category) {
			modifiers = append(modifiers, copyModifier(m))
		}
	}
	sort.Slice(modifiers, func(i, j int) bool {
		return modifiers[i].ID < modifiers[j].ID
	})
	return modifiers, nil
}
