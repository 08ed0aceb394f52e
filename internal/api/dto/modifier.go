package dto

import (
	"context"

	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// UpsertModifierRequest creates or replaces the pricing modifier addressed
// by the path id
type UpsertModifierRequest struct {
	Kind                 types.ModifierKind      `json:"kind" validate:"required"`
	ValueType            types.ModifierValueType `json:"value_type" validate:"required"`
	Value                decimal.Decimal         `json:"value" validate:"required"`
	ApplicableCategories []string                `json:"applicable_categories" validate:"required,min=1"`
	Active               *bool                   `json:"active,omitempty"`
}

// Validate validates the request
func (r *UpsertModifierRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	return r.ValueType.Validate()
}

// ToModifier builds the domain modifier under the given id
func (r *UpsertModifierRequest) ToModifier(ctx context.Context, id string) *domainModifier.PricingModifier {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domainModifier.PricingModifier{
		ID:                   id,
		Kind:                 r.Kind,
		ValueType:            r.ValueType,
		Value:                r.Value,
		ApplicableCategories: r.ApplicableCategories,
		Active:               active,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}
}

// ModifierResponse is a pricing modifier in API responses
type ModifierResponse struct {
	ID                   string                  `json:"id"`
	Kind                 types.ModifierKind      `json:"kind"`
	ValueType            types.ModifierValueType `json:"value_type"`
	Value                decimal.Decimal         `json:"value"`
	ApplicableCategories []string                `json:"applicable_categories"`
	Active               bool                    `json:"active"`
}

// NewModifierResponse converts a domain modifier to its API representation
func NewModifierResponse(m *domainModifier.PricingModifier) *ModifierResponse {
	if m == nil {
		return nil
	}
	return &ModifierResponse{
		ID:                   m.ID,
		Kind:                 m.Kind,
		ValueType:            m.ValueType,
		Value:                m.Value,
		ApplicableCategories: m.ApplicableCategories,
		Active:               m.Active,
	}
}

// ListModifiersResponse is the envelope for modifier listings
type ListModifiersResponse struct {
	Items []*ModifierResponse `json:"items"`
	Total int                 `json:"total"`
}

// ApplyModifiersRequest prices a base amount through the modifier chain
type ApplyModifiersRequest struct {
	BasePrice decimal.Decimal `json:"base_price" validate:"required"`
	Category  string          `json:"category" validate:"required"`
}

// Validate validates the request
func (r *ApplyModifiersRequest) Validate() error {
	return validateStruct(r)
}

// AdjustmentLineResponse is one step of the adjustment chain
type AdjustmentLineResponse struct {
	ModifierID string             `json:"modifier_id"`
	Kind       types.ModifierKind `json:"kind"`
	Before     decimal.Decimal    `json:"before"`
	After      decimal.Decimal    `json:"after"`
}

// ApplyModifiersResponse is the priced result with its adjustment trail
type ApplyModifiersResponse struct {
	BasePrice     decimal.Decimal           `json:"base_price"`
	AdjustedPrice decimal.Decimal           `json:"adjusted_price"`
	Adjustments   []*AdjustmentLineResponse `json:"adjustments"`
}

// NewApplyModifiersResponse converts an engine result to its API representation
func NewApplyModifiersResponse(result *domainModifier.AdjustedPrice) *ApplyModifiersResponse {
	if result == nil {
		return nil
	}
	lines := make([]*AdjustmentLineResponse, 0, len(result.Lines))
	for _, line := range result.Lines {
		lines = append(lines, &AdjustmentLineResponse{
			ModifierID: line.ModifierID,
			Kind:       line.Kind,
			Before:     line.Before,
			After:      line.After,
		})
	}
	return &ApplyModifiersResponse{
		BasePrice:     result.BasePrice,
		AdjustedPrice: result.FinalPrice,
		Adjustments:   lines,
	}
}
