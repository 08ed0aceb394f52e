package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// InMemoryLedgerStore implements ledger.Repository. Draft and final entries
// live under composite keys so the same offer can hold one draft and one
// final entry at a time.
type InMemoryLedgerStore struct {
	*InMemoryStore[*ledger.CommissionEntry]
}

// NewInMemoryLedgerStore creates a new in-memory commission ledger store
func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		InMemoryStore: NewInMemoryStore[*ledger.CommissionEntry](),
	}
}

func draftKey(offerID string) string {
	return "draft/" + offerID
}

func finalKey(offerID, saleRef string) string {
	return "final/" + offerID + "/" + saleRef
}

func copyEntry(e *ledger.CommissionEntry) *ledger.CommissionEntry {
	if e == nil {
		return nil
	}
	copied := *e
	copied.Breakdown = append([]ledger.BreakdownLine{}, e.Breakdown...)
	return &copied
}

func (s *InMemoryLedgerStore) UpsertDraft(ctx context.Context, entry *ledger.CommissionEntry) error {
	if entry == nil {
		return ierr.NewError("commission entry cannot be nil").
			WithHint("Commission entry cannot be nil").
			Mark(ierr.ErrValidation)
	}
	s.InMemoryStore.Set(ctx, draftKey(entry.OfferID), copyEntry(entry))
	return nil
}

func (s *InMemoryLedgerStore) GetDraft(ctx context.Context, offerID string) (*ledger.CommissionEntry, error) {
	entry, err := s.InMemoryStore.Get(ctx, draftKey(offerID))
	if err != nil {
		return nil, ierr.NewError("no draft commission entry for offer").
			WithHint("Commission entry not found").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyEntry(entry), nil
}

func (s *InMemoryLedgerStore) PromoteDraft(ctx context.Context, offerID string, finalizedAt time.Time) (*ledger.CommissionEntry, error) {
	if existing, err := s.InMemoryStore.Get(ctx, finalKey(offerID, "")); err == nil {
		return nil, ierr.NewError("commission entry already finalized").
			WithHint("A final commission entry already exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
				"entry_id": existing.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	draft, err := s.InMemoryStore.Get(ctx, draftKey(offerID))
	if err != nil {
		return nil, ierr.NewError("no draft commission entry to finalize").
			WithHint("Preview the commission before approving the offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
	}

	final := copyEntry(draft)
	final.EntryStatus = types.CommissionEntryStatusFinal
	final.UpdatedAt = finalizedAt
	s.InMemoryStore.Set(ctx, finalKey(offerID, ""), final)
	s.InMemoryStore.Delete(ctx, draftKey(offerID))
	return copyEntry(final), nil
}

func (s *InMemoryLedgerStore) CreateFinal(ctx context.Context, entry *ledger.CommissionEntry) error {
	if entry == nil {
		return ierr.NewError("commission entry cannot be nil").
			WithHint("Commission entry cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, finalKey(entry.OfferID, entry.SaleRef), copyEntry(entry)); err != nil {
		return ierr.WithError(err).
			WithHint("A final commission entry already exists for this offer and sale").
			WithReportableDetails(map[string]interface{}{
				"offer_id": entry.OfferID,
				"sale_ref": entry.SaleRef,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryLedgerStore) GetFinal(ctx context.Context, offerID string) (*ledger.CommissionEntry, error) {
	entry, err := s.InMemoryStore.Get(ctx, finalKey(offerID, ""))
	if err != nil {
		return nil, ierr.NewError("no final commission entry for offer").
			WithHint("Commission entry not found").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyEntry(entry), nil
}

func (s *InMemoryLedgerStore) ListFinal(ctx context.Context, filter *ledger.EntryFilter) ([]*ledger.CommissionEntry, error) {
	if filter == nil {
		filter = ledger.NewEntryFilter()
	}

	entries := make([]*ledger.CommissionEntry, 0)
	for _, entry := range s.InMemoryStore.All(ctx) {
		if entry.EntryStatus != types.CommissionEntryStatusFinal {
			continue
		}
		if filter.Matches(entry) {
			entries = append(entries, copyEntry(entry))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ComputedAt.After(entries[j].ComputedAt)
	})

	if offset := filter.GetOffset(); offset > 0 {
		if offset >= len(entries) {
			return []*ledger.CommissionEntry{}, nil
		}
		entries = entries[offset:]
	}
	if limit := filter.GetLimit(); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *InMemoryLedgerStore) AggregateFinal(ctx context.Context, filter *ledger.EntryFilter) ([]*ledger.Aggregate, error) {
	if filter == nil {
		filter = ledger.NewEntryFilter()
	}

	byType := make(map[types.OfferType]*ledger.Aggregate)
	for _, entry := range s.InMemoryStore.All(ctx) {
		if entry.EntryStatus != types.CommissionEntryStatusFinal || !filter.Matches(entry) {
			continue
		}
		agg, ok := byType[entry.OfferType]
		if !ok {
			agg = &ledger.Aggregate{OfferType: entry.OfferType, TotalAmount: decimal.Zero}
			byType[entry.OfferType] = agg
		}
		agg.EntryCount++
		agg.TotalAmount = agg.TotalAmount.Add(entry.ComputedAmount)
	}

	aggregates := make([]*ledger.Aggregate, 0, len(byType))
	for _, agg := range byType {
		aggregates = append(aggregates, agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].OfferType < aggregates[j].OfferType
	})
	return aggregates, nil
}
