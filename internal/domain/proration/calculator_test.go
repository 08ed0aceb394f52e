package proration

import (
	"testing"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule(offerType types.OfferType, rateValue string) *rate.RateRule {
	return &rate.RateRule{
		ID:            "rate_test_" + string(offerType),
		OfferType:     offerType,
		BillingUnit:   offerType.DefaultBillingUnit(),
		RateValue:     decimal.RequireFromString(rateValue),
		Active:        true,
		EffectiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Version:       1,
	}
}

func testContext(offerType types.OfferType, days int) *offer.BillingContext {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return &offer.BillingContext{
		OfferID:     "offer_test",
		OfferType:   offerType,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, days),
		SubmittedAt: start,
	}
}

func TestComputeActive(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		rate      string
		wantUnits int64
		wantTotal string
	}{
		{"full month", 30, "25", 30, "750"},
		{"short run", 10, "25", 10, "250"},
		{"capped at thirty days", 45, "25", 30, "750"},
		{"same day still bills one unit", 0, "25", 1, "25"},
		{"single day", 1, "12.5", 1, "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(testContext(types.OfferTypeActive, tt.days), testRule(types.OfferTypeActive, tt.rate))
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.wantUnits).Equal(result.BillableUnits), "units: got %s", result.BillableUnits)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(result.Amount), "amount: got %s", result.Amount)
			assert.NotEmpty(t, result.Breakdown)
		})
	}
}

func TestComputeActiveCapBoundsAmount(t *testing.T) {
	rule := testRule(types.OfferTypeActive, "40")
	ceiling := decimal.NewFromInt(ActiveDayCap).Mul(rule.RateValue)

	for days := 1; days <= 90; days += 7 {
		result, err := Compute(testContext(types.OfferTypeActive, days), rule)
		require.NoError(t, err)
		assert.True(t, result.Amount.LessThanOrEqual(ceiling),
			"amount %s exceeds cap ceiling %s at %d days", result.Amount, ceiling, days)
	}
}

func TestComputeActiveMonotonic(t *testing.T) {
	rule := testRule(types.OfferTypeActive, "17")

	prev := decimal.Zero
	for days := 0; days <= 60; days++ {
		result, err := Compute(testContext(types.OfferTypeActive, days), rule)
		require.NoError(t, err)
		assert.True(t, result.Amount.GreaterThanOrEqual(prev),
			"amount decreased from %s to %s at %d days", prev, result.Amount, days)
		prev = result.Amount
	}
}

func TestComputeWeekdays(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		wantUnits int64
	}{
		{"one week exactly", 7, 1},
		{"partial second week rounds up", 8, 2},
		{"sixteen days is three weeks", 16, 3},
		{"same day is one week", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(testContext(types.OfferTypeWeekdays, tt.days), testRule(types.OfferTypeWeekdays, "100"))
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.wantUnits).Equal(result.BillableUnits), "units: got %s", result.BillableUnits)
			assert.True(t, decimal.NewFromInt(tt.wantUnits*100).Equal(result.Amount))
		})
	}
}

func TestComputeHappyHour(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		wantUnits int64
	}{
		{"one month exactly", 30, 1},
		{"partial second month rounds up", 31, 2},
		{"same day is one month", 0, 1},
		{"quarter", 90, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(testContext(types.OfferTypeHappyHour, tt.days), testRule(types.OfferTypeHappyHour, "300"))
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.wantUnits).Equal(result.BillableUnits), "units: got %s", result.BillableUnits)
		})
	}
}

func TestComputeGiftCard(t *testing.T) {
	tests := []struct {
		name       string
		saleAmount string
		rate       string
		want       string
	}{
		{"exact percentage", "1000", "5", "50"},
		{"rounds half up", "12345.67", "4.5", "556"},
		{"rounds down below half", "1001", "2", "20"},
		{"zero sale", "0", "5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			billingCtx := testContext(types.OfferTypeGiftCard, 30)
			billingCtx.SaleAmount = lo.ToPtr(decimal.RequireFromString(tt.saleAmount))

			result, err := Compute(billingCtx, testRule(types.OfferTypeGiftCard, tt.rate))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(result.Amount), "amount: got %s", result.Amount)
			assert.True(t, decimal.NewFromInt(1).Equal(result.BillableUnits))
		})
	}
}

func TestComputeGiftCardMissingSaleAmount(t *testing.T) {
	_, err := Compute(testContext(types.OfferTypeGiftCard, 30), testRule(types.OfferTypeGiftCard, "5"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestComputeRejectsMismatchedRule(t *testing.T) {
	_, err := Compute(testContext(types.OfferTypeActive, 10), testRule(types.OfferTypeWeekdays, "100"))
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}

func TestComputeRejectsNilRule(t *testing.T) {
	_, err := Compute(testContext(types.OfferTypeActive, 10), nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestComputeRejectsInvalidDateRange(t *testing.T) {
	billingCtx := testContext(types.OfferTypeActive, 10)
	billingCtx.EndDate = billingCtx.StartDate.AddDate(0, 0, -1)

	_, err := Compute(billingCtx, testRule(types.OfferTypeActive, "25"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestComputeBreakdownRecordsRate(t *testing.T) {
	result, err := Compute(testContext(types.OfferTypeActive, 5), testRule(types.OfferTypeActive, "25"))
	require.NoError(t, err)

	labels := make([]string, 0, len(result.Breakdown))
	for _, line := range result.Breakdown {
		labels = append(labels, line.Label)
	}
	assert.Contains(t, labels, "rate")
	assert.Contains(t, labels, "commission")
}
