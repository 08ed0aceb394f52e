package dto

import (
	"context"
	"time"

	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// UpsertRateRuleRequest creates a new rule version for an offer type. The
// prior active rule, if any, is retired as of the new rule's effective_from.
type UpsertRateRuleRequest struct {
	RateValue     decimal.Decimal `json:"rate_value" validate:"required"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
	Description   string          `json:"description,omitempty" validate:"max=512"`
}

// Validate validates the request
func (r *UpsertRateRuleRequest) Validate() error {
	return validateStruct(r)
}

// ToRateRule builds the domain rule for the given offer type. The billing
// unit follows from the offer type's pricing scheme.
func (r *UpsertRateRuleRequest) ToRateRule(ctx context.Context, offerType types.OfferType) *domainRate.RateRule {
	effectiveFrom := time.Now().UTC()
	if r.EffectiveFrom != nil {
		effectiveFrom = r.EffectiveFrom.UTC()
	}

	return &domainRate.RateRule{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RATE_RULE),
		OfferType:     offerType,
		BillingUnit:   offerType.DefaultBillingUnit(),
		RateValue:     r.RateValue,
		Active:        true,
		EffectiveFrom: effectiveFrom,
		Description:   r.Description,
		Version:       1,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// ToggleRateRuleRequest flips a rule's active flag
type ToggleRateRuleRequest struct {
	Active  *bool `json:"active" validate:"required"`
	Version int   `json:"version" validate:"gte=0"`
}

// Validate validates the request
func (r *ToggleRateRuleRequest) Validate() error {
	return validateStruct(r)
}

// RateRuleResponse is a rate rule in API responses
type RateRuleResponse struct {
	ID            string            `json:"id"`
	OfferType     types.OfferType   `json:"offer_type"`
	BillingUnit   types.BillingUnit `json:"billing_unit"`
	RateValue     decimal.Decimal   `json:"rate_value"`
	Active        bool              `json:"active"`
	EffectiveFrom time.Time         `json:"effective_from"`
	EffectiveTo   *time.Time        `json:"effective_to,omitempty"`
	Description   string            `json:"description,omitempty"`
	Version       int               `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewRateRuleResponse converts a domain rule to its API representation
func NewRateRuleResponse(rule *domainRate.RateRule) *RateRuleResponse {
	if rule == nil {
		return nil
	}
	return &RateRuleResponse{
		ID:            rule.ID,
		OfferType:     rule.OfferType,
		BillingUnit:   rule.BillingUnit,
		RateValue:     rule.RateValue,
		Active:        rule.Active,
		EffectiveFrom: rule.EffectiveFrom,
		EffectiveTo:   rule.EffectiveTo,
		Description:   rule.Description,
		Version:       rule.Version,
		CreatedAt:     rule.CreatedAt,
		UpdatedAt:     rule.UpdatedAt,
	}
}

// ListRateRulesResponse is the envelope for rate rule listings
type ListRateRulesResponse struct {
	Items []*RateRuleResponse `json:"items"`
	Total int                 `json:"total"`
}
