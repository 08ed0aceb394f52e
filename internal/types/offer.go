package types

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// OfferType is the category of a promotional offer. It selects the
// commission formula applied when the offer is approved.
type OfferType string

const (
	OfferTypeActive    OfferType = "active"
	OfferTypeWeekdays  OfferType = "weekdays"
	OfferTypeHappyHour OfferType = "happy_hour"
	OfferTypeGiftCard  OfferType = "gift_card"
)

// Validate validates the offer type
func (t OfferType) Validate() error {
	switch t {
	case OfferTypeActive, OfferTypeWeekdays, OfferTypeHappyHour, OfferTypeGiftCard:
		return nil
	default:
		return ierr.NewErrorf("invalid offer type: %s", t).
			WithHint("Offer type must be one of active, weekdays, happy_hour, gift_card").
			Mark(ierr.ErrValidation)
	}
}

func (t OfferType) String() string {
	return string(t)
}

// BillingUnit is the quantity a rate value is expressed per
type BillingUnit string

const (
	BillingUnitDay        BillingUnit = "day"
	BillingUnitWeek       BillingUnit = "week"
	BillingUnitMonth      BillingUnit = "month"
	BillingUnitPercentage BillingUnit = "percentage"
)

// Validate validates the billing unit
func (u BillingUnit) Validate() error {
	switch u {
	case BillingUnitDay, BillingUnitWeek, BillingUnitMonth, BillingUnitPercentage:
		return nil
	default:
		return ierr.NewErrorf("invalid billing unit: %s", u).
			WithHint("Billing unit must be one of day, week, month, percentage").
			Mark(ierr.ErrValidation)
	}
}

// DefaultBillingUnit returns the billing unit an offer type is priced in
func (t OfferType) DefaultBillingUnit() BillingUnit {
	switch t {
	case OfferTypeWeekdays:
		return BillingUnitWeek
	case OfferTypeHappyHour:
		return BillingUnitMonth
	case OfferTypeGiftCard:
		return BillingUnitPercentage
	default:
		return BillingUnitDay
	}
}
