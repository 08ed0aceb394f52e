package modifier

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PricingModifier is a discount or markup adjustment applied to a base price
// for display and reporting. Inactive modifiers are never applied.
type PricingModifier struct {
	ID                   string                  `json:"id"`
	Kind                 types.ModifierKind      `json:"kind"`
	ValueType            types.ModifierValueType `json:"value_type"`
	Value                decimal.Decimal         `json:"value"`
	ApplicableCategories []string                `json:"applicable_categories"`
	Active               bool                    `json:"active"`

	types.BaseModel
}

// Validate validates the pricing modifier
func (m *PricingModifier) Validate() error {
	if err := m.Kind.Validate(); err != nil {
		return err
	}
	if err := m.ValueType.Validate(); err != nil {
		return err
	}
	if m.Value.IsNegative() {
		return ierr.NewError("value must be non-negative").
			WithHint("Modifier value cannot be negative").
			WithReportableDetails(map[string]interface{}{
				"value": m.Value.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if len(m.ApplicableCategories) == 0 {
		return ierr.NewError("applicable_categories must not be empty").
			WithHint("Modifier must apply to at least one category").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AppliesTo reports whether the modifier covers the given category
func (m *PricingModifier) AppliesTo(category string) bool {
	return lo.Contains(m.ApplicableCategories, category)
}

// Apply computes the price after this single modifier against the running
// price. Discounts subtract, markups add; percentage values are taken of the
// running price, not the original.
func (m *PricingModifier) Apply(running decimal.Decimal) decimal.Decimal {
	var delta decimal.Decimal
	switch m.ValueType {
	case types.ModifierValueTypePercentage:
		delta = running.Mul(m.Value).Div(decimal.NewFromInt(100))
	default:
		delta = m.Value
	}

	if m.Kind == types.ModifierKindDiscount {
		return running.Sub(delta)
	}
	return running.Add(delta)
}
