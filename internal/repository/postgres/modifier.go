package postgres

import (
	"context"
	"database/sql"

	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/lib/pq"
)

const modifierColumns = `
	id, kind, value_type, value, applicable_categories, active,
	status, created_at, updated_at, created_by, updated_by`

type modifierRepository struct {
	client pgclient.IClient
	logger *logger.Logger
}

// NewModifierRepository creates a new pricing modifier repository
func NewModifierRepository(client pgclient.IClient, logger *logger.Logger) domainModifier.Repository {
	return &modifierRepository{
		client: client,
		logger: logger,
	}
}

func (r *modifierRepository) Upsert(ctx context.Context, m *domainModifier.PricingModifier) error {
	r.logger.Debugw("upserting pricing modifier", "modifier_id", m.ID, "kind", m.Kind)

	span := StartRepositorySpan(ctx, "pricing_modifier", "upsert", map[string]interface{}{
		"modifier_id": m.ID,
	})
	defer FinishSpan(span)

	_, err := r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO pricing_modifiers (`+modifierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			value_type = EXCLUDED.value_type,
			value = EXCLUDED.value,
			applicable_categories = EXCLUDED.applicable_categories,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		m.ID, m.Kind, m.ValueType, m.Value, pq.Array(m.ApplicableCategories), m.Active,
		m.Status, m.CreatedAt, m.UpdatedAt, m.CreatedBy, m.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to upsert pricing modifier").
			WithReportableDetails(map[string]interface{}{
				"modifier_id": m.ID,
			}).
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *modifierRepository) Get(ctx context.Context, id string) (*domainModifier.PricingModifier, error) {
	span := StartRepositorySpan(ctx, "pricing_modifier", "get", map[string]interface{}{
		"modifier_id": id,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+modifierColumns+`
		FROM pricing_modifiers
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)

	m, err := scanModifier(row)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("pricing modifier not found").
				WithHint("Pricing modifier not found").
				WithReportableDetails(map[string]interface{}{
					"modifier_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get pricing modifier").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return m, nil
}

func (r *modifierRepository) List(ctx context.Context) ([]*domainModifier.PricingModifier, error) {
	span := StartRepositorySpan(ctx, "pricing_modifier", "list", nil)
	defer FinishSpan(span)

	rows, err := r.client.Querier(ctx).QueryContext(ctx, `
		SELECT `+modifierColumns+`
		FROM pricing_modifiers
		WHERE status != $1
		ORDER BY id`,
		types.StatusDeleted,
	)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list pricing modifiers").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	modifiers, err := scanModifiers(rows)
	if err != nil {
		SetSpanError(span, err)
		return nil, err
	}

	SetSpanSuccess(span)
	return modifiers, nil
}

func (r *modifierRepository) ListActiveByCategory(ctx context.Context, category string) ([]*domainModifier.PricingModifier, error) {
	span := StartRepositorySpan(ctx, "pricing_modifier", "list_active_by_category", map[string]interface{}{
		"category": category,
	})
	defer FinishSpan(span)

	rows, err := r.client.Querier(ctx).QueryContext(ctx, `
		SELECT `+modifierColumns+`
		FROM pricing_modifiers
		WHERE active
		  AND status != $1
		  AND $2 = ANY(applicable_categories)
		ORDER BY id`,
		types.StatusDeleted, category,
	)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list pricing modifiers for category").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	modifiers, err := scanModifiers(rows)
	if err != nil {
		SetSpanError(span, err)
		return nil, err
	}

	SetSpanSuccess(span)
	return modifiers, nil
}

func scanModifier(row rowScanner) (*domainModifier.PricingModifier, error) {
	var m domainModifier.PricingModifier
	err := row.Scan(
		&m.ID, &m.Kind, &m.ValueType, &m.Value, pq.Array(&m.ApplicableCategories), &m.Active,
		&m.Status, &m.CreatedAt, &m.UpdatedAt, &m.CreatedBy, &m.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanModifiers(rows *sql.Rows) ([]*domainModifier.PricingModifier, error) {
	var modifiers []*domainModifier.PricingModifier
	for rows.Next() {
		m, err := scanModifier(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan pricing modifier").
				Mark(ierr.ErrDatabase)
		}
		modifiers = append(modifiers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate pricing modifiers").
			Mark(ierr.ErrDatabase)
	}
	return modifiers, nil
}
