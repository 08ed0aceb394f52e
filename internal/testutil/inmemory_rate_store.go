package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/samber/lo"
)

// InMemoryRateStore implements rate.Repository
type InMemoryRateStore struct {
	*InMemoryStore[*rate.RateRule]
}

// NewInMemoryRateStore creates a new in-memory rate rule store
func NewInMemoryRateStore() *InMemoryRateStore {
	return &InMemoryRateStore{
		InMemoryStore: NewInMemoryStore[*rate.RateRule](),
	}
}

func copyRateRule(r *rate.RateRule) *rate.RateRule {
	if r == nil {
		return nil
	}
	copied := *r
	if r.EffectiveTo != nil {
		copied.EffectiveTo = lo.ToPtr(*r.EffectiveTo)
	}
	return &copied
}

func (s *InMemoryRateStore) Create(ctx context.Context, rule *rate.RateRule) error {
	if rule == nil {
		return ierr.NewError("rate rule cannot be nil").
			WithHint("Rate rule cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, rule.ID, copyRateRule(rule)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create rate rule").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *InMemoryRateStore) Get(ctx context.Context, id string) (*rate.RateRule, error) {
	rule, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("rate rule not found").
			WithHint("Rate rule not found").
			WithReportableDetails(map[string]interface{}{
				"rule_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyRateRule(rule), nil
}

func (s *InMemoryRateStore) GetActiveRule(ctx context.Context, offerType types.OfferType, asOf time.Time) (*rate.RateRule, error) {
	var best *rate.RateRule
	for _, rule := range s.InMemoryStore.All(ctx) {
		if rule.OfferType != offerType || !rule.InEffect(asOf) {
			continue
		}
		if best == nil || rule.EffectiveFrom.After(best.EffectiveFrom) {
			best = rule
		}
	}
	if best == nil {
		return nil, ierr.NewErrorf("no rate rule in effect for offer type %s", offerType).
			WithHint("No active rate is configured for this offer type").
			WithReportableDetails(map[string]interface{}{
				"offer_type": offerType,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyRateRule(best), nil
}

func (s *InMemoryRateStore) ListActive(ctx context.Context) ([]*rate.RateRule, error) {
	var rules []*rate.RateRule
	for _, rule := range s.InMemoryStore.All(ctx) {
		if rule.Active {
			rules = append(rules, copyRateRule(rule))
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].OfferType < rules[j].OfferType
	})
	return rules, nil
}

func (s *InMemoryRateStore) ListByOfferType(ctx context.Context, offerType types.OfferType) ([]*rate.RateRule, error) {
	var rules []*rate.RateRule
	for _, rule := range s.InMemoryStore.All(ctx) {
		if rule.OfferType == offerType {
			rules = append(rules, copyRateRule(rule))
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].EffectiveFrom.After(rules[j].EffectiveFrom)
	})
	return rules, nil
}

func (s *InMemoryRateStore) SetActive(ctx context.Context, id string, active bool, expectedVersion int, deactivatedAt time.Time) error {
	rule, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return ierr.NewError("rate rule not found").
			WithHint("Rate rule not found").
			Mark(ierr.ErrNotFound)
	}
	if rule.Version != expectedVersion {
		return ierr.NewError("rate rule was modified concurrently").
			WithHint("The rule was edited by another operator, retry with the latest version").
			WithReportableDetails(map[string]interface{}{
				"rule_id":          id,
				"expected_version": expectedVersion,
				"actual_version":   rule.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	// Same invariant the partial unique index enforces in postgres: at most
	// one active rule per offer type
	if active {
		for _, other := range s.InMemoryStore.All(ctx) {
			if other.ID != id && other.OfferType == rule.OfferType && other.Active {
				return ierr.NewError("another rule is already active for this offer type").
					WithHint("Another rule is already active for this offer type").
					WithReportableDetails(map[string]interface{}{
						"rule_id":        id,
						"active_rule_id": other.ID,
						"offer_type":     rule.OfferType,
					}).
					Mark(ierr.ErrVersionConflict)
			}
		}
	}

	updated := copyRateRule(rule)
	updated.Active = active
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()
	if active {
		updated.EffectiveTo = nil
	} else {
		updated.EffectiveTo = lo.ToPtr(deactivatedAt)
	}
	s.InMemoryStore.Set(ctx, id, updated)
	return nil
}
