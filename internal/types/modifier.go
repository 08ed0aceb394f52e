package types

import (
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

// ModifierKind distinguishes discounts from markups
type ModifierKind string

const (
	ModifierKindDiscount ModifierKind = "discount"
	ModifierKindMarkup   ModifierKind = "markup"
)

// Validate validates the modifier kind
func (k ModifierKind) Validate() error {
	switch k {
	case ModifierKindDiscount, ModifierKindMarkup:
		return nil
	default:
		return ierr.NewErrorf("invalid modifier kind: %s", k).
			WithHint("Modifier kind must be one of discount, markup").
			Mark(ierr.ErrValidation)
	}
}

// ModifierValueType is how a modifier's value is interpreted
type ModifierValueType string

const (
	ModifierValueTypePercentage ModifierValueType = "percentage"
	ModifierValueTypeAmount     ModifierValueType = "amount"
)

// Validate validates the modifier value type
func (v ModifierValueType) Validate() error {
	switch v {
	case ModifierValueTypePercentage, ModifierValueTypeAmount:
		return nil
	default:
		return ierr.NewErrorf("invalid modifier value type: %s", v).
			WithHint("Modifier value type must be one of percentage, amount").
			Mark(ierr.ErrValidation)
	}
}
