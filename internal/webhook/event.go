package webhook

import (
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// EventTypeCommissionFinalized is emitted once per finalized ledger entry
const EventTypeCommissionFinalized = "commission.finalized"

// CommissionFinalizedEvent is the payload published to reporting consumers
// after a commission entry is finalized
type CommissionFinalizedEvent struct {
	EventID     string                 `json:"event_id"`
	EventType   string                 `json:"event_type"`
	OfferID     string                 `json:"offer_id"`
	SaleRef     string                 `json:"sale_ref,omitempty"`
	EntryID     string                 `json:"entry_id"`
	RuleID      string                 `json:"rule_id"`
	OfferType   types.OfferType        `json:"offer_type"`
	Amount      decimal.Decimal        `json:"amount"`
	Breakdown   []ledger.BreakdownLine `json:"breakdown"`
	FinalizedAt time.Time              `json:"finalized_at"`
}

// NewCommissionFinalizedEvent builds the event payload from a final entry
func NewCommissionFinalizedEvent(entry *ledger.CommissionEntry) *CommissionFinalizedEvent {
	return &CommissionFinalizedEvent{
		EventID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WEBHOOK_EVENT),
		EventType:   EventTypeCommissionFinalized,
		OfferID:     entry.OfferID,
		SaleRef:     entry.SaleRef,
		EntryID:     entry.ID,
		RuleID:      entry.RuleID,
		OfferType:   entry.OfferType,
		Amount:      entry.ComputedAmount,
		Breakdown:   entry.Breakdown,
		FinalizedAt: entry.ComputedAt,
	}
}
