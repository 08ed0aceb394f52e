package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
)

const ledgerColumns = `
	id, offer_id, sale_ref, rule_id, offer_type, billable_units,
	computed_amount, breakdown, computed_at, entry_status,
	status, created_at, updated_at, created_by, updated_by`

type ledgerRepository struct {
	client pgclient.IClient
	logger *logger.Logger
}

// NewLedgerRepository creates a new commission ledger repository
func NewLedgerRepository(client pgclient.IClient, logger *logger.Logger) domainLedger.Repository {
	return &ledgerRepository{
		client: client,
		logger: logger,
	}
}

func (r *ledgerRepository) UpsertDraft(ctx context.Context, entry *domainLedger.CommissionEntry) error {
	r.logger.Debugw("upserting draft commission entry",
		"offer_id", entry.OfferID,
		"amount", entry.ComputedAmount)

	span := StartRepositorySpan(ctx, "commission_entry", "upsert_draft", map[string]interface{}{
		"offer_id": entry.OfferID,
	})
	defer FinishSpan(span)

	breakdown, err := json.Marshal(entry.Breakdown)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to encode breakdown").
			Mark(ierr.ErrInternal)
	}

	_, err = r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO commission_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (offer_id) WHERE entry_status = 'draft' DO UPDATE SET
			rule_id = EXCLUDED.rule_id,
			offer_type = EXCLUDED.offer_type,
			billable_units = EXCLUDED.billable_units,
			computed_amount = EXCLUDED.computed_amount,
			breakdown = EXCLUDED.breakdown,
			computed_at = EXCLUDED.computed_at,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		entry.ID, entry.OfferID, entry.SaleRef, entry.RuleID, entry.OfferType, entry.BillableUnits,
		entry.ComputedAmount, breakdown, entry.ComputedAt, entry.EntryStatus,
		entry.Status, entry.CreatedAt, entry.UpdatedAt, entry.CreatedBy, entry.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to store draft commission entry").
			WithReportableDetails(map[string]interface{}{
				"offer_id": entry.OfferID,
			}).
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *ledgerRepository) GetDraft(ctx context.Context, offerID string) (*domainLedger.CommissionEntry, error) {
	return r.getByStatus(ctx, offerID, types.CommissionEntryStatusDraft)
}

func (r *ledgerRepository) GetFinal(ctx context.Context, offerID string) (*domainLedger.CommissionEntry, error) {
	return r.getByStatus(ctx, offerID, types.CommissionEntryStatusFinal)
}

func (r *ledgerRepository) getByStatus(ctx context.Context, offerID string, entryStatus types.CommissionEntryStatus) (*domainLedger.CommissionEntry, error) {
	span := StartRepositorySpan(ctx, "commission_entry", "get_"+string(entryStatus), map[string]interface{}{
		"offer_id": offerID,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM commission_entries
		WHERE offer_id = $1 AND sale_ref = '' AND entry_status = $2 AND status != $3`,
		offerID, entryStatus, types.StatusDeleted,
	)

	entry, err := scanCommissionEntry(row)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewErrorf("no %s commission entry for offer", entryStatus).
				WithHint("Commission entry not found").
				WithReportableDetails(map[string]interface{}{
					"offer_id":     offerID,
					"entry_status": entryStatus,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get commission entry").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return entry, nil
}

// PromoteDraft flips the draft entry to final. The partial unique index on
// final entries backs the at-most-one-final guarantee under racing
// finalize calls.
func (r *ledgerRepository) PromoteDraft(ctx context.Context, offerID string, finalizedAt time.Time) (*domainLedger.CommissionEntry, error) {
	r.logger.Debugw("promoting draft commission entry", "offer_id", offerID)

	span := StartRepositorySpan(ctx, "commission_entry", "promote_draft", map[string]interface{}{
		"offer_id": offerID,
	})
	defer FinishSpan(span)

	if existing, err := r.GetFinal(ctx, offerID); err == nil {
		err := ierr.NewError("commission entry already finalized").
			WithHint("A final commission entry already exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
				"entry_id": existing.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
		SetSpanError(span, err)
		return nil, err
	} else if !ierr.IsNotFound(err) {
		SetSpanError(span, err)
		return nil, err
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE commission_entries
		SET entry_status = $2,
		    updated_at = $3,
		    updated_by = $4
		WHERE offer_id = $1 AND sale_ref = '' AND entry_status = $5 AND status != $6`,
		offerID, types.CommissionEntryStatusFinal, finalizedAt, types.GetUserID(ctx),
		types.CommissionEntryStatusDraft, types.StatusDeleted,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return nil, ierr.WithError(err).
				WithHint("A final commission entry already exists for this offer").
				WithReportableDetails(map[string]interface{}{
					"offer_id": offerID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to finalize commission entry").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to finalize commission entry").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		err := ierr.NewError("no draft commission entry to finalize").
			WithHint("Preview the commission before approving the offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
			}).
			Mark(ierr.ErrNotFound)
		SetSpanError(span, err)
		return nil, err
	}

	SetSpanSuccess(span)
	return r.GetFinal(ctx, offerID)
}

func (r *ledgerRepository) CreateFinal(ctx context.Context, entry *domainLedger.CommissionEntry) error {
	r.logger.Debugw("creating final commission entry",
		"offer_id", entry.OfferID,
		"sale_ref", entry.SaleRef)

	span := StartRepositorySpan(ctx, "commission_entry", "create_final", map[string]interface{}{
		"offer_id": entry.OfferID,
		"sale_ref": entry.SaleRef,
	})
	defer FinishSpan(span)

	breakdown, err := json.Marshal(entry.Breakdown)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to encode breakdown").
			Mark(ierr.ErrInternal)
	}

	_, err = r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO commission_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		entry.ID, entry.OfferID, entry.SaleRef, entry.RuleID, entry.OfferType, entry.BillableUnits,
		entry.ComputedAmount, breakdown, entry.ComputedAt, entry.EntryStatus,
		entry.Status, entry.CreatedAt, entry.UpdatedAt, entry.CreatedBy, entry.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A final commission entry already exists for this offer and sale").
				WithReportableDetails(map[string]interface{}{
					"offer_id": entry.OfferID,
					"sale_ref": entry.SaleRef,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create final commission entry").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *ledgerRepository) ListFinal(ctx context.Context, filter *domainLedger.EntryFilter) ([]*domainLedger.CommissionEntry, error) {
	if filter == nil {
		filter = domainLedger.NewEntryFilter()
	}

	span := StartRepositorySpan(ctx, "commission_entry", "list_final", nil)
	defer FinishSpan(span)

	query := `
		SELECT ` + ledgerColumns + `
		FROM commission_entries
		WHERE entry_status = $1 AND status != $2`
	args := []interface{}{types.CommissionEntryStatusFinal, types.StatusDeleted}

	query, args = appendEntryFilter(query, args, filter)
	query += ` ORDER BY computed_at DESC`

	if limit := filter.GetLimit(); limit > 0 {
		args = append(args, limit, filter.GetOffset())
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list commission entries").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var entries []*domainLedger.CommissionEntry
	for rows.Next() {
		entry, err := scanCommissionEntry(rows)
		if err != nil {
			SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan commission entry").
				Mark(ierr.ErrDatabase)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate commission entries").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return entries, nil
}

// AggregateFinal sums the stored amounts; the live rate registry is never
// consulted here.
func (r *ledgerRepository) AggregateFinal(ctx context.Context, filter *domainLedger.EntryFilter) ([]*domainLedger.Aggregate, error) {
	if filter == nil {
		filter = domainLedger.NewEntryFilter()
	}

	span := StartRepositorySpan(ctx, "commission_entry", "aggregate_final", nil)
	defer FinishSpan(span)

	query := `
		SELECT offer_type, COUNT(*), COALESCE(SUM(computed_amount), 0)
		FROM commission_entries
		WHERE entry_status = $1 AND status != $2`
	args := []interface{}{types.CommissionEntryStatusFinal, types.StatusDeleted}

	query, args = appendEntryFilter(query, args, filter)
	query += ` GROUP BY offer_type ORDER BY offer_type`

	rows, err := r.client.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to aggregate commission entries").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var aggregates []*domainLedger.Aggregate
	for rows.Next() {
		var agg domainLedger.Aggregate
		if err := rows.Scan(&agg.OfferType, &agg.EntryCount, &agg.TotalAmount); err != nil {
			SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan aggregate row").
				Mark(ierr.ErrDatabase)
		}
		aggregates = append(aggregates, &agg)
	}
	if err := rows.Err(); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate aggregate rows").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return aggregates, nil
}

func appendEntryFilter(query string, args []interface{}, filter *domainLedger.EntryFilter) (string, []interface{}) {
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND computed_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND computed_at <= $` + strconv.Itoa(len(args))
	}
	if filter.OfferType != nil {
		args = append(args, *filter.OfferType)
		query += ` AND offer_type = $` + strconv.Itoa(len(args))
	}
	return query, args
}

func scanCommissionEntry(row rowScanner) (*domainLedger.CommissionEntry, error) {
	var entry domainLedger.CommissionEntry
	var breakdown []byte
	err := row.Scan(
		&entry.ID, &entry.OfferID, &entry.SaleRef, &entry.RuleID, &entry.OfferType, &entry.BillableUnits,
		&entry.ComputedAmount, &breakdown, &entry.ComputedAt, &entry.EntryStatus,
		&entry.Status, &entry.CreatedAt, &entry.UpdatedAt, &entry.CreatedBy, &entry.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &entry.Breakdown); err != nil {
			return nil, err
		}
	}
	return &entry, nil
}
