package modifier

import (
	"sort"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// AdjustmentLine records one modifier application for display and audit
type AdjustmentLine struct {
	ModifierID string             `json:"modifier_id"`
	Kind       types.ModifierKind `json:"kind"`
	Before     decimal.Decimal    `json:"before"`
	After      decimal.Decimal    `json:"after"`
}

// AdjustedPrice is the result of applying a modifier set to a base price
type AdjustedPrice struct {
	BasePrice  decimal.Decimal  `json:"base_price"`
	FinalPrice decimal.Decimal  `json:"final_price"`
	Lines      []AdjustmentLine `json:"lines"`
}

// Apply runs the modifier set against the base price. All discounts apply
// first, then all markups, each group in ascending id order, every modifier
// against the running price. The result is floored at zero. The ordering
// makes the computation deterministic for a given modifier set, which audit
// reproducibility depends on.
//
// Inactive modifiers and modifiers not covering the category must be
// filtered out by the caller or they are skipped here as well.
func Apply(basePrice decimal.Decimal, category string, modifiers []*PricingModifier) *AdjustedPrice {
	applicable := make([]*PricingModifier, 0, len(modifiers))
	for _, m := range modifiers {
		if m.Active && m.AppliesTo(category) {
			applicable = append(applicable, m)
		}
	}

	// Discounts before markups, ascending id within each group
	sort.SliceStable(applicable, func(i, j int) bool {
		if applicable[i].Kind != applicable[j].Kind {
			return applicable[i].Kind == types.ModifierKindDiscount
		}
		return applicable[i].ID < applicable[j].ID
	})

	result := &AdjustedPrice{
		BasePrice:  basePrice,
		FinalPrice: basePrice,
		Lines:      make([]AdjustmentLine, 0, len(applicable)),
	}

	running := basePrice
	for _, m := range applicable {
		next := m.Apply(running)
		result.Lines = append(result.Lines, AdjustmentLine{
			ModifierID: m.ID,
			Kind:       m.Kind,
			Before:     running,
			After:      next,
		})
		running = next
	}

	if running.IsNegative() {
		running = decimal.Zero
	}
	result.FinalPrice = running
	return result
}
