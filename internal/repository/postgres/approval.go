package postgres

import (
	"context"
	"database/sql"
	"time"

	domainApproval "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
)

const approvalColumns = `
	offer_id, subject_kind, state, revisions, submitted_at,
	status, created_at, updated_at, created_by, updated_by`

type approvalRepository struct {
	client pgclient.IClient
	logger *logger.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(client pgclient.IClient, logger *logger.Logger) domainApproval.Repository {
	return &approvalRepository{
		client: client,
		logger: logger,
	}
}

func (r *approvalRepository) Create(ctx context.Context, a *domainApproval.Approval) error {
	r.logger.Debugw("creating approval", "offer_id", a.OfferID, "state", a.State)

	span := StartRepositorySpan(ctx, "approval", "create", map[string]interface{}{
		"offer_id": a.OfferID,
	})
	defer FinishSpan(span)

	_, err := r.client.Querier(ctx).ExecContext(ctx, `
		INSERT INTO approvals (`+approvalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.OfferID, a.SubjectKind, a.State, a.Revisions, a.SubmittedAt,
		a.Status, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An approval already exists for this offer").
				WithReportableDetails(map[string]interface{}{
					"offer_id": a.OfferID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create approval").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return nil
}

func (r *approvalRepository) Get(ctx context.Context, offerID string) (*domainApproval.Approval, error) {
	span := StartRepositorySpan(ctx, "approval", "get", map[string]interface{}{
		"offer_id": offerID,
	})
	defer FinishSpan(span)

	row := r.client.Querier(ctx).QueryRowContext(ctx, `
		SELECT `+approvalColumns+`
		FROM approvals
		WHERE offer_id = $1 AND status != $2`,
		offerID, types.StatusDeleted,
	)

	var a domainApproval.Approval
	err := row.Scan(
		&a.OfferID, &a.SubjectKind, &a.State, &a.Revisions, &a.SubmittedAt,
		&a.Status, &a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.UpdatedBy,
	)
	if err != nil {
		SetSpanError(span, err)
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("approval not found").
				WithHint("No approval exists for this offer").
				WithReportableDetails(map[string]interface{}{
					"offer_id": offerID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get approval").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &a, nil
}

func (r *approvalRepository) Update(ctx context.Context, a *domainApproval.Approval) error {
	r.logger.Debugw("updating approval", "offer_id", a.OfferID, "state", a.State)

	span := StartRepositorySpan(ctx, "approval", "update", map[string]interface{}{
		"offer_id": a.OfferID,
		"state":    a.State,
	})
	defer FinishSpan(span)

	res, err := r.client.Querier(ctx).ExecContext(ctx, `
		UPDATE approvals
		SET state = $2,
		    revisions = $3,
		    updated_at = $4,
		    updated_by = $5
		WHERE offer_id = $1 AND status != $6`,
		a.OfferID, a.State, a.Revisions, time.Now().UTC(), types.GetUserID(ctx), types.StatusDeleted,
	)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update approval").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to update approval").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		err := ierr.NewError("approval not found").
			WithHint("No approval exists for this offer").
			WithReportableDetails(map[string]interface{}{
				"offer_id": a.OfferID,
			}).
			Mark(ierr.ErrNotFound)
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}
