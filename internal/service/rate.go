package service

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/cache"
	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
)

const (
	activeRuleCachePrefix = "rate:active:"
	rateLockPrefix        = "rate_rules:"
	rateLockTimeout       = 5 * time.Second
)

// RateService manages the append-only rate rule registry
type RateService interface {
	UpsertRule(ctx context.Context, offerType types.OfferType, req *dto.UpsertRateRuleRequest) (*dto.RateRuleResponse, error)
	ToggleRule(ctx context.Context, id string, req *dto.ToggleRateRuleRequest) (*dto.RateRuleResponse, error)
	GetRule(ctx context.Context, id string) (*dto.RateRuleResponse, error)
	GetActiveRule(ctx context.Context, offerType types.OfferType, asOf time.Time) (*domainRate.RateRule, error)
	ListActiveRules(ctx context.Context) (*dto.ListRateRulesResponse, error)
	GetRuleHistory(ctx context.Context, offerType types.OfferType) (*dto.ListRateRulesResponse, error)
}

type rateService struct {
	ServiceParams
}

// NewRateService creates a rate registry service
func NewRateService(params ServiceParams) RateService {
	return &rateService{ServiceParams: params}
}

// UpsertRule appends a new rule version for the offer type and retires the
// prior active rule as of the new rule's effective_from. The two writes run
// in one transaction under an advisory lock so concurrent upserts for the
// same offer type serialize instead of racing the partial unique index.
func (s *rateService) UpsertRule(ctx context.Context, offerType types.OfferType, req *dto.UpsertRateRuleRequest) (*dto.RateRuleResponse, error) {
	if err := offerType.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rule := req.ToRateRule(ctx, offerType)
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.DB.LockKey(ctx, rateLockPrefix+string(offerType), rateLockTimeout); err != nil {
			return err
		}

		prior, err := s.RateRepo.GetActiveRule(ctx, offerType, rule.EffectiveFrom)
		if err != nil && !ierr.IsNotFound(err) {
			return err
		}
		if prior != nil {
			if err := s.RateRepo.SetActive(ctx, prior.ID, false, prior.Version, rule.EffectiveFrom); err != nil {
				return err
			}
			rule.Version = prior.Version + 1
		}

		return s.RateRepo.Create(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateActiveRule(ctx, offerType)

	s.Logger.Infow("rate rule created",
		"rule_id", rule.ID,
		"offer_type", rule.OfferType,
		"rate_value", rule.RateValue,
		"version", rule.Version)

	return dto.NewRateRuleResponse(rule), nil
}

// ToggleRule flips a rule's active flag under optimistic concurrency. A
// stale version in the request fails with a version conflict and the caller
// must re-read and retry.
func (s *rateService) ToggleRule(ctx context.Context, id string, req *dto.ToggleRateRuleRequest) (*dto.RateRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.RateRepo.SetActive(ctx, id, *req.Active, req.Version, time.Now().UTC()); err != nil {
		return nil, err
	}

	rule, err := s.RateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateActiveRule(ctx, rule.OfferType)

	s.Logger.Infow("rate rule toggled",
		"rule_id", rule.ID,
		"offer_type", rule.OfferType,
		"active", rule.Active)

	return dto.NewRateRuleResponse(rule), nil
}

// GetRule returns a rule by id, including retired historical versions
func (s *rateService) GetRule(ctx context.Context, id string) (*dto.RateRuleResponse, error) {
	rule, err := s.RateRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewRateRuleResponse(rule), nil
}

// GetActiveRule resolves the rule in effect for the offer type at asOf.
// Current-time lookups go through the cache; historical lookups always hit
// the store because the cache only ever holds the live rule.
func (s *rateService) GetActiveRule(ctx context.Context, offerType types.OfferType, asOf time.Time) (*domainRate.RateRule, error) {
	if err := offerType.Validate(); err != nil {
		return nil, err
	}

	cacheable := time.Since(asOf).Abs() < time.Minute
	cacheKey := activeRuleCachePrefix + string(offerType)

	if cacheable && s.Cache != nil {
		if value, found := s.Cache.Get(ctx, cacheKey); found {
			if rule, ok := cache.UnmarshalCacheValue[domainRate.RateRule](value); ok {
				return rule, nil
			}
		}
	}

	rule, err := s.RateRepo.GetActiveRule(ctx, offerType, asOf)
	if err != nil {
		return nil, err
	}

	if cacheable && s.Cache != nil {
		s.Cache.Set(ctx, cacheKey, rule, cache.ExpiryDefaultInMemory)
	}

	return rule, nil
}

// ListActiveRules returns the current rate card, one rule per offer type
func (s *rateService) ListActiveRules(ctx context.Context) (*dto.ListRateRulesResponse, error) {
	rules, err := s.RateRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return newListRateRulesResponse(rules), nil
}

// GetRuleHistory returns every rule version for an offer type, newest first
func (s *rateService) GetRuleHistory(ctx context.Context, offerType types.OfferType) (*dto.ListRateRulesResponse, error) {
	if err := offerType.Validate(); err != nil {
		return nil, err
	}

	rules, err := s.RateRepo.ListByOfferType(ctx, offerType)
	if err != nil {
		return nil, err
	}
	return newListRateRulesResponse(rules), nil
}

func (s *rateService) invalidateActiveRule(ctx context.Context, offerType types.OfferType) {
	if s.Cache == nil {
		return
	}
	s.Cache.Delete(ctx, activeRuleCachePrefix+string(offerType))
}

func newListRateRulesResponse(rules []*domainRate.RateRule) *dto.ListRateRulesResponse {
	items := make([]*dto.RateRuleResponse, 0, len(rules))
	for _, rule := range rules {
		items = append(items, dto.NewRateRuleResponse(rule))
	}
	return &dto.ListRateRulesResponse{Items: items, Total: len(items)}
}
