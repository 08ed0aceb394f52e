// Package proration converts an offer's billing context into a billable
// unit count and a commission amount under the offer type's policy.
package proration

import (
	"fmt"
	"math"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

const (
	hoursPerDay = 24

	// ActiveDayCap bounds how many days an active offer is billed for,
	// however long it actually runs
	ActiveDayCap = 30

	daysPerWeek  = 7
	daysPerMonth = 30
)

// Result is one commission computation: the unit count, the amount, and the
// labeled steps that produced it
type Result struct {
	BillableUnits decimal.Decimal        `json:"billable_units"`
	Amount        decimal.Decimal        `json:"amount"`
	Breakdown     []ledger.BreakdownLine `json:"breakdown"`
}

// CalcFunc is a pure per-offer-type commission calculation. Adding an offer
// type means registering a new function here, not editing a shared
// conditional.
type CalcFunc func(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error)

var calculators = map[types.OfferType]CalcFunc{
	types.OfferTypeActive:    computeActive,
	types.OfferTypeWeekdays:  computeWeekdays,
	types.OfferTypeHappyHour: computeHappyHour,
	types.OfferTypeGiftCard:  computeGiftCard,
}

// Compute runs the offer type's calculation for the given context and rule.
// The rule must belong to the context's offer type; the caller decides which
// rule version applies (the one in effect at submission time).
func Compute(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error) {
	if err := billingCtx.Validate(); err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ierr.NewError("rate rule is required").
			WithHint("No rate rule provided for the computation").
			Mark(ierr.ErrValidation)
	}
	if rule.OfferType != billingCtx.OfferType {
		return nil, ierr.NewErrorf("rule %s is for offer type %s, context is %s", rule.ID, rule.OfferType, billingCtx.OfferType).
			WithHint("Rate rule does not match the offer's type").
			Mark(ierr.ErrInvalidOperation)
	}

	calc, ok := calculators[billingCtx.OfferType]
	if !ok {
		return nil, ierr.NewErrorf("no calculator registered for offer type %s", billingCtx.OfferType).
			WithHint("Unsupported offer type").
			Mark(ierr.ErrInvalidOperation)
	}

	result, err := calc(billingCtx, rule)
	if err != nil {
		return nil, err
	}

	// Unexpected negative results are fatal, never clamped
	if result.Amount.IsNegative() {
		return nil, ierr.NewErrorf("computed commission is negative: %s", result.Amount).
			WithHint("Commission computation produced an invalid result").
			WithReportableDetails(map[string]interface{}{
				"offer_id": billingCtx.OfferID,
				"rule_id":  rule.ID,
				"amount":   result.Amount.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return result, nil
}

// billableDays returns the offer duration in whole days, rounded up, with a
// minimum of one: a same-day offer still incurs one unit of commission.
func billableDays(billingCtx *offer.BillingContext) int {
	days := int(math.Ceil(billingCtx.Duration().Hours() / hoursPerDay))
	if days < 1 {
		days = 1
	}
	return days
}

func computeActive(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error) {
	days := billableDays(billingCtx)
	capped := days
	if capped > ActiveDayCap {
		capped = ActiveDayCap
	}

	units := decimal.NewFromInt(int64(capped))
	amount := units.Mul(rule.RateValue)

	capLine := "not applied"
	if days > ActiveDayCap {
		capLine = fmt.Sprintf("applied (%d day cap)", ActiveDayCap)
	}

	return &Result{
		BillableUnits: units,
		Amount:        amount,
		Breakdown: []ledger.BreakdownLine{
			{Label: "duration_days", Value: fmt.Sprintf("%d", days)},
			{Label: "cap", Value: capLine},
			{Label: "billable_units", Value: fmt.Sprintf("%d day(s)", capped)},
			{Label: "rate", Value: fmt.Sprintf("%s per day", rule.RateValue)},
			{Label: "commission", Value: amount.String()},
		},
	}, nil
}

func computeWeekdays(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error) {
	days := billableDays(billingCtx)
	weeks := (days + daysPerWeek - 1) / daysPerWeek
	if weeks < 1 {
		weeks = 1
	}

	units := decimal.NewFromInt(int64(weeks))
	amount := units.Mul(rule.RateValue)

	return &Result{
		BillableUnits: units,
		Amount:        amount,
		Breakdown: []ledger.BreakdownLine{
			{Label: "duration_days", Value: fmt.Sprintf("%d", days)},
			{Label: "billable_units", Value: fmt.Sprintf("%d week(s)", weeks)},
			{Label: "rate", Value: fmt.Sprintf("%s per week", rule.RateValue)},
			{Label: "commission", Value: amount.String()},
		},
	}, nil
}

func computeHappyHour(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error) {
	days := billableDays(billingCtx)
	months := (days + daysPerMonth - 1) / daysPerMonth
	if months < 1 {
		months = 1
	}

	units := decimal.NewFromInt(int64(months))
	amount := units.Mul(rule.RateValue)

	return &Result{
		BillableUnits: units,
		Amount:        amount,
		Breakdown: []ledger.BreakdownLine{
			{Label: "duration_days", Value: fmt.Sprintf("%d", days)},
			{Label: "billable_units", Value: fmt.Sprintf("%d month(s)", months)},
			{Label: "rate", Value: fmt.Sprintf("%s per month", rule.RateValue)},
			{Label: "commission", Value: amount.String()},
		},
	}, nil
}

func computeGiftCard(billingCtx *offer.BillingContext, rule *rate.RateRule) (*Result, error) {
	if billingCtx.SaleAmount == nil {
		return nil, ierr.NewError("sale_amount is required for gift_card offers").
			WithHint("Gift card commission is computed per completed sale; provide the sale amount").
			WithReportableDetails(map[string]interface{}{
				"offer_id": billingCtx.OfferID,
			}).
			Mark(ierr.ErrValidation)
	}

	// Percentage of the sale amount, rounded half-up to whole currency units
	amount := billingCtx.SaleAmount.
		Mul(rule.RateValue).
		Div(decimal.NewFromInt(100)).
		Round(0)

	return &Result{
		BillableUnits: decimal.NewFromInt(1),
		Amount:        amount,
		Breakdown: []ledger.BreakdownLine{
			{Label: "sale_amount", Value: billingCtx.SaleAmount.String()},
			{Label: "rate", Value: fmt.Sprintf("%s%%", rule.RateValue)},
			{Label: "commission", Value: amount.String()},
		},
	}, nil
}
