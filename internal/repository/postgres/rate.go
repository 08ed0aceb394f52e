package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/lib/pq"
)

const rateRuleColumns = `
	id, offer_type, billing_unit, rate_value, active,
	effective_from, effective_to, description, version,
	status, created_at, updated_at, created_by, updated_by`

type rateRepository struct {
	client pgclient.IClient
	logger *logger.Logger
}

// NewRateRepository creates a new rate rule repository
func NewRateRepository(client pgclient.IClient, logger *logger.Logger) domainRate.Repository {
	return &rateRepository{
		client: client,
		logger: logger,
	}
}

func (r *rateRepository) Create(ctx context.Context, rule *domainRate.RateRule) error {
	r.logger.Debugw("creating rate rule", "rule_id", rule.ID, "offer_type", rule.OfferType)

	span := StartRepositorySpan(ctx, "rate_rule", "create", map[string]interface{}{
		"rule_id":    rule.ID,
		"offer_type": rule.OfferType,
	})
	defer FinishSpan(span)

	_, err := r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO rate_rules (`+rateRuleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rule.ID, rule.OfferType, rule.BillingUnit, rule.RateValue, rule.Active,
		rule.EffectiveFrom, rule.EffectiveTo, rule.Description, rule.Version,
		rule.Status, rule.CreatedAt, rule.UpdatedAt, rule.CreatedBy, rule.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An active rule already exists for this offer type").
				WithReportableDetails(map[string]interface{}{
					"offer_type": rule.OfferType,
				}).
				Mark(ierr.ErrVersionConflict)
		}
		return ierr.WithError(err).
			WithHint("Failed to create rate rule").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *rateRepository) Get(ctx context.Context, id string) (*domainRate.RateRule, error) {
	span := StartRepositorySpan(ctx, "rate_rule", "get", map[string]interface{}{
		"rule_id": id,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+rateRuleColumns+`
		FROM rate_rules
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted,
	)

	rule, err := scanRateRule(row)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("rate rule not found").
				WithHint("Rate rule not found").
				WithReportableDetails(map[string]interface{}{
					"rule_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get rate rule").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return rule, nil
}

// GetActiveRule resolves the rule in effect at asOf. A retired rule whose
// effective period covers asOf still resolves, so approvals pinned to their
// submission time are unaffected by later edits.
func (r *rateRepository) GetActiveRule(ctx context.Context, offerType types.OfferType, asOf time.Time) (*domainRate.RateRule, error) {
	span := StartRepositorySpan(ctx, "rate_rule", "get_active", map[string]interface{}{
		"offer_type": offerType,
		"as_of":      asOf,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+rateRuleColumns+`
		FROM rate_rules
		WHERE offer_type = $1
		  AND status != $2
		  AND effective_from <= $3
		  AND ((effective_to IS NULL AND active) OR effective_to > $3)
		ORDER BY effective_from DESC, version DESC
		LIMIT 1`,
		offerType, types.StatusDeleted, asOf,
	)

	rule, err := scanRateRule(row)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewErrorf("no rate rule in effect for offer type %s", offerType).
				WithHint("No active rate is configured for this offer type").
				WithReportableDetails(map[string]interface{}{
					"offer_type": offerType,
					"as_of":      asOf,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to resolve active rate rule").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return rule, nil
}

func (r *rateRepository) ListActive(ctx context.Context) ([]*domainRate.RateRule, error) {
	span := StartRepositorySpan(ctx, "rate_rule", "list_active", nil)
	defer FinishSpan(span)

	rows, err := r.client.Querier(ctx).QueryContext(ctx, `
		SELECT `+rateRuleColumns+`
		FROM rate_rules
		WHERE active AND status != $1
		ORDER BY offer_type`,
		types.StatusDeleted,
	)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list active rate rules").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	rules, err := scanRateRules(rows)
	if err != nil {
		SetSpanError(span, err)
		return nil, err
	}

	SetSpanSuccess(span)
	return rules, nil
}

func (r *rateRepository) ListByOfferType(ctx context.Context, offerType types.OfferType) ([]*domainRate.RateRule, error) {
	span := StartRepositorySpan(ctx, "rate_rule", "list_by_offer_type", map[string]interface{}{
		"offer_type": offerType,
	})
	defer FinishSpan(span)

	rows, err := r.client.Querier(ctx).QueryContext(ctx, `
		SELECT `+rateRuleColumns+`
		FROM rate_rules
		WHERE offer_type = $1 AND status != $2
		ORDER BY effective_from DESC, version DESC`,
		offerType, types.StatusDeleted,
	)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list rate rule history").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	rules, err := scanRateRules(rows)
	if err != nil {
		SetSpanError(span, err)
		return nil, err
	}

	SetSpanSuccess(span)
	return rules, nil
}

func (r *rateRepository) SetActive(ctx context.Context, id string, active bool, expectedVersion int, deactivatedAt time.Time) error {
	r.logger.Debugw("setting rate rule active flag", "rule_id", id, "active", active)

	span := StartRepositorySpan(ctx, "rate_rule", "set_active", map[string]interface{}{
		"rule_id": id,
		"active":  active,
	})
	defer FinishSpan(span)

	// Existence check first so a stale version is reported as a conflict,
	// not a missing row
	if _, err := r.Get(ctx, id); err != nil {
		SetSpanError(span, err)
		return err
	}

	var effectiveTo interface{}
	if !active {
		effectiveTo = deactivatedAt
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE rate_rules
		SET active = $2,
		    effective_to = $3,
		    version = version + 1,
		    updated_at = $4,
		    updated_by = $5
		WHERE id = $1 AND version = $6`,
		id, active, effectiveTo, time.Now().UTC(), types.GetUserID(ctx), expectedVersion,
	)
	if err != nil {
		SetSpanError(span, err)
		// Re-activating while another version holds the active slot trips
		// the one-active-rule-per-offer-type index
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("Another rule is already active for this offer type").
				WithReportableDetails(map[string]interface{}{
					"rule_id": id,
				}).
				Mark(ierr.ErrVersionConflict)
		}
		return ierr.WithError(err).
			WithHint("Failed to update rate rule").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update rate rule").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		err := ierr.NewError("rate rule was modified concurrently").
			WithHint("The rule was edited by another operator, retry with the latest version").
			WithReportableDetails(map[string]interface{}{
				"rule_id":          id,
				"expected_version": expectedVersion,
			}).
			Mark(ierr.ErrVersionConflict)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRateRule(row rowScanner) (*domainRate.RateRule, error) {
	var rule domainRate.RateRule
	var effectiveTo sql.NullTime
	err := row.Scan(
		&rule.ID, &rule.OfferType, &rule.BillingUnit, &rule.RateValue, &rule.Active,
		&rule.EffectiveFrom, &effectiveTo, &rule.Description, &rule.Version,
		&rule.Status, &rule.CreatedAt, &rule.UpdatedAt, &rule.CreatedBy, &rule.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if effectiveTo.Valid {
		rule.EffectiveTo = &effectiveTo.Time
	}
	return &rule, nil
}

func scanRateRules(rows *sql.Rows) ([]*domainRate.RateRule, error) {
	var rules []*domainRate.RateRule
	for rows.Next() {
		rule, err := scanRateRule(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan rate rule").
				Mark(ierr.ErrDatabase)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate rate rules").
			Mark(ierr.ErrDatabase)
	}
	return rules, nil
}

// isUniqueViolation checks for the postgres unique_violation error code
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
