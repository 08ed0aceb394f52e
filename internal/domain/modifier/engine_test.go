package modifier

import (
	"testing"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pctDiscount(id, value string, categories ...string) *PricingModifier {
	return &PricingModifier{
		ID:                   id,
		Kind:                 types.ModifierKindDiscount,
		ValueType:            types.ModifierValueTypePercentage,
		Value:                decimal.RequireFromString(value),
		ApplicableCategories: categories,
		Active:               true,
	}
}

func amountMarkup(id, value string, categories ...string) *PricingModifier {
	return &PricingModifier{
		ID:                   id,
		Kind:                 types.ModifierKindMarkup,
		ValueType:            types.ModifierValueTypeAmount,
		Value:                decimal.RequireFromString(value),
		ApplicableCategories: categories,
		Active:               true,
	}
}

func TestApplyDiscountsBeforeMarkups(t *testing.T) {
	// 10% discount on 1000 leaves 900, then a flat 50 markup: 950. If the
	// markup ran first the discount would shave it too: (1000+50)*0.9 = 945.
	modifiers := []*PricingModifier{
		amountMarkup("mod_b", "50", "dining"),
		pctDiscount("mod_a", "10", "dining"),
	}

	result := Apply(decimal.NewFromInt(1000), "dining", modifiers)
	assert.True(t, decimal.NewFromInt(950).Equal(result.FinalPrice), "got %s", result.FinalPrice)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, "mod_a", result.Lines[0].ModifierID)
	assert.Equal(t, "mod_b", result.Lines[1].ModifierID)
}

func TestApplyOrdersByIDWithinKind(t *testing.T) {
	modifiers := []*PricingModifier{
		pctDiscount("mod_z", "10", "dining"),
		pctDiscount("mod_a", "20", "dining"),
	}

	result := Apply(decimal.NewFromInt(100), "dining", modifiers)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "mod_a", result.Lines[0].ModifierID)
	assert.Equal(t, "mod_z", result.Lines[1].ModifierID)

	// 100 * 0.8 = 80, then 80 * 0.9 = 72
	assert.True(t, decimal.NewFromInt(72).Equal(result.FinalPrice), "got %s", result.FinalPrice)
}

func TestApplyDeterministicRegardlessOfInputOrder(t *testing.T) {
	a := pctDiscount("mod_a", "15", "dining")
	b := amountMarkup("mod_b", "30", "dining")
	c := pctDiscount("mod_c", "5", "dining")

	forward := Apply(decimal.NewFromInt(500), "dining", []*PricingModifier{a, b, c})
	reversed := Apply(decimal.NewFromInt(500), "dining", []*PricingModifier{c, b, a})

	assert.True(t, forward.FinalPrice.Equal(reversed.FinalPrice))
	require.Equal(t, len(forward.Lines), len(reversed.Lines))
	for i := range forward.Lines {
		assert.Equal(t, forward.Lines[i].ModifierID, reversed.Lines[i].ModifierID)
	}
}

func TestApplyFiltersCategoryAndInactive(t *testing.T) {
	inactive := pctDiscount("mod_off", "50", "dining")
	inactive.Active = false

	modifiers := []*PricingModifier{
		inactive,
		pctDiscount("mod_spa", "10", "spa"),
		amountMarkup("mod_din", "25", "dining"),
	}

	result := Apply(decimal.NewFromInt(200), "dining", modifiers)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "mod_din", result.Lines[0].ModifierID)
	assert.True(t, decimal.NewFromInt(225).Equal(result.FinalPrice))
}

func TestApplyFloorsAtZero(t *testing.T) {
	modifiers := []*PricingModifier{
		{
			ID:                   "mod_big",
			Kind:                 types.ModifierKindDiscount,
			ValueType:            types.ModifierValueTypeAmount,
			Value:                decimal.NewFromInt(500),
			ApplicableCategories: []string{"dining"},
			Active:               true,
		},
	}

	result := Apply(decimal.NewFromInt(100), "dining", modifiers)
	assert.True(t, result.FinalPrice.IsZero(), "got %s", result.FinalPrice)
}

func TestApplyNoModifiersReturnsBase(t *testing.T) {
	result := Apply(decimal.NewFromInt(100), "dining", nil)
	assert.True(t, decimal.NewFromInt(100).Equal(result.FinalPrice))
	assert.Empty(t, result.Lines)
}
