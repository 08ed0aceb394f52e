package postgres

import (
	"context"
	"database/sql"

	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

const offerContextColumns = `
	offer_id, offer_type, start_date, end_date, sale_amount, submitted_at,
	status, created_at, updated_at, created_by, updated_by`

type offerRepository struct {
	client pgclient.IClient
	logger *logger.Logger
}

// NewOfferRepository creates a new offer billing context repository
func NewOfferRepository(client pgclient.IClient, logger *logger.Logger) domainOffer.Repository {
	return &offerRepository{
		client: client,
		logger: logger,
	}
}

func (r *offerRepository) Create(ctx context.Context, billingCtx *domainOffer.BillingContext) error {
	r.logger.Debugw("creating offer billing context",
		"offer_id", billingCtx.OfferID,
		"offer_type", billingCtx.OfferType)

	span := StartRepositorySpan(ctx, "offer_billing_context", "create", map[string]interface{}{
		"offer_id": billingCtx.OfferID,
	})
	defer FinishSpan(span)

	var saleAmount interface{}
	if billingCtx.SaleAmount != nil {
		saleAmount = *billingCtx.SaleAmount
	}

	_, err := r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO offer_billing_contexts (`+offerContextColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		billingCtx.OfferID, billingCtx.OfferType, billingCtx.StartDate, billingCtx.EndDate,
		saleAmount, billingCtx.SubmittedAt,
		billingCtx.Status, billingCtx.CreatedAt, billingCtx.UpdatedAt,
		billingCtx.CreatedBy, billingCtx.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A billing context already exists for this offer").
				WithReportableDetails(map[string]interface{}{
					"offer_id": billingCtx.OfferID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create offer billing context").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *offerRepository) Get(ctx context.Context, offerID string) (*domainOffer.BillingContext, error) {
	span := StartRepositorySpan(ctx, "offer_billing_context", "get", map[string]interface{}{
		"offer_id": offerID,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+offerContextColumns+`
		FROM offer_billing_contexts
		WHERE offer_id = $1 AND status != $2`,
		offerID, types.StatusDeleted,
	)

	var billingCtx domainOffer.BillingContext
	var saleAmount decimal.NullDecimal
	err := row.Scan(
		&billingCtx.OfferID, &billingCtx.OfferType, &billingCtx.StartDate, &billingCtx.EndDate,
		&saleAmount, &billingCtx.SubmittedAt,
		&billingCtx.Status, &billingCtx.CreatedAt, &billingCtx.UpdatedAt,
		&billingCtx.CreatedBy, &billingCtx.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("offer billing context not found").
				WithHint("No billing context exists for this offer").
				WithReportableDetails(map[string]interface{}{
					"offer_id": offerID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get offer billing context").
			Mark(ierr.ErrDatabase)
	}
	if saleAmount.Valid {
		billingCtx.SaleAmount = &saleAmount.Decimal
	}

	SetSpanSuccess(span)
	return &billingCtx, nil
}
