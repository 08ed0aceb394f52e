package service

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/webhook"
	"github.com/cenkalti/backoff/v4"
)

const approveRetryInterval = 50 * time.Millisecond

// ApprovalService drives an offer through the review state machine and
// finalizes its commission on approval
type ApprovalService interface {
	SubmitForReview(ctx context.Context, offerID string) (*dto.ApprovalResponse, error)
	Approve(ctx context.Context, offerID string) (*dto.ApprovalResponse, error)
	RequestRevision(ctx context.Context, offerID string) (*dto.ApprovalResponse, error)
	Reject(ctx context.Context, offerID string) (*dto.ApprovalResponse, error)
	GetApproval(ctx context.Context, offerID string) (*dto.ApprovalResponse, error)
}

type approvalService struct {
	ServiceParams
	commission CommissionService
}

// NewApprovalService creates an approval gate service
func NewApprovalService(params ServiceParams) ApprovalService {
	return &approvalService{
		ServiceParams: params,
		commission:    NewCommissionService(params),
	}
}

// SubmitForReview moves the offer into pending review and refreshes its
// draft commission so reviewers see the amount they are approving. Gift card
// offers without a sale amount skip the draft, their commission is recorded
// per sale after approval.
func (s *approvalService) SubmitForReview(ctx context.Context, offerID string) (*dto.ApprovalResponse, error) {
	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := approval.CanTransitionTo(types.ApprovalStatePendingReview); err != nil {
		return nil, err
	}

	billingCtx, err := s.OfferRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	// Draft refresh and state change land together or not at all
	var entry *domainLedger.CommissionEntry
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if !isDeferredGiftCard(billingCtx) {
			entry, err = s.commission.ComputeDraft(ctx, billingCtx)
			if err != nil {
				return err
			}
		}

		approval.State = types.ApprovalStatePendingReview
		return s.ApprovalRepo.Update(ctx, approval)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("offer submitted for review",
		"offer_id", offerID,
		"subject_kind", approval.SubjectKind,
		"revisions", approval.Revisions)

	return dto.NewApprovalResponse(approval, entry), nil
}

// Approve finalizes the offer's commission and marks the approval terminal.
// The draft is recomputed from the rule pinned at submission time, promoted
// to final, and the approval row updated in a single transaction. Re-approving
// an already approved offer is idempotent and returns the existing entry.
//
// A concurrent rule toggle can surface as a version conflict from the rate
// registry mid-computation, the whole transaction is retried once before the
// conflict is returned to the caller.
func (s *approvalService) Approve(ctx context.Context, offerID string) (*dto.ApprovalResponse, error) {
	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if approval.State == types.ApprovalStateApproved {
		entry, err := s.LedgerRepo.GetFinal(ctx, offerID)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
		return dto.NewApprovalResponse(approval, entry), nil
	}

	if err := approval.CanTransitionTo(types.ApprovalStateApproved); err != nil {
		return nil, err
	}

	billingCtx, err := s.OfferRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	var finalEntry *domainLedger.CommissionEntry
	operation := func() error {
		finalEntry = nil
		return s.DB.WithTx(ctx, func(ctx context.Context) error {
			if isDeferredGiftCard(billingCtx) {
				// No sale amount yet: approve without a ledger entry,
				// per-sale entries follow as sales complete
				approval.State = types.ApprovalStateApproved
				return s.ApprovalRepo.Update(ctx, approval)
			}

			if _, err := s.commission.ComputeDraft(ctx, billingCtx); err != nil {
				return err
			}

			entry, err := s.LedgerRepo.PromoteDraft(ctx, offerID, time.Now().UTC())
			if err != nil {
				return err
			}
			finalEntry = entry

			approval.State = types.ApprovalStateApproved
			return s.ApprovalRepo.Update(ctx, approval)
		})
	}

	err = backoff.Retry(func() error {
		if err := operation(); err != nil {
			if ierr.IsVersionConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(approveRetryInterval), 1))
	if err != nil {
		return nil, err
	}

	if finalEntry != nil {
		s.publishFinalized(ctx, finalEntry)
	}

	s.Logger.Infow("offer approved",
		"offer_id", offerID,
		"deferred", finalEntry == nil)

	return dto.NewApprovalResponse(approval, finalEntry), nil
}

// RequestRevision sends the offer back for changes. Exceeding the subject
// kind's revision cap forces a terminal rejection instead.
func (s *approvalService) RequestRevision(ctx context.Context, offerID string) (*dto.ApprovalResponse, error) {
	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	forcedReject, err := approval.RequestRevision()
	if err != nil {
		return nil, err
	}

	if err := s.ApprovalRepo.Update(ctx, approval); err != nil {
		return nil, err
	}

	if forcedReject {
		s.Logger.Warnw("revision cap exceeded, offer rejected",
			"offer_id", offerID,
			"subject_kind", approval.SubjectKind,
			"revisions", approval.Revisions)
	} else {
		s.Logger.Infow("revision requested",
			"offer_id", offerID,
			"revisions", approval.Revisions)
	}

	return dto.NewApprovalResponse(approval, nil), nil
}

// Reject terminally rejects the offer. No ledger entry is written.
func (s *approvalService) Reject(ctx context.Context, offerID string) (*dto.ApprovalResponse, error) {
	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if err := approval.CanTransitionTo(types.ApprovalStateRejected); err != nil {
		return nil, err
	}

	approval.State = types.ApprovalStateRejected
	if err := s.ApprovalRepo.Update(ctx, approval); err != nil {
		return nil, err
	}

	s.Logger.Infow("offer rejected", "offer_id", offerID)

	return dto.NewApprovalResponse(approval, nil), nil
}

func (s *approvalService) GetApproval(ctx context.Context, offerID string) (*dto.ApprovalResponse, error) {
	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	// Approved offers carry their final entry, in-flight ones carry the
	// draft last shown to reviewers
	var entry *domainLedger.CommissionEntry
	switch approval.State {
	case types.ApprovalStateApproved:
		entry, err = s.LedgerRepo.GetFinal(ctx, offerID)
	case types.ApprovalStatePendingReview, types.ApprovalStateRevisionRequested:
		entry, err = s.LedgerRepo.GetDraft(ctx, offerID)
	}
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	return dto.NewApprovalResponse(approval, entry), nil
}

func (s *approvalService) publishFinalized(ctx context.Context, entry *domainLedger.CommissionEntry) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishCommissionFinalized(ctx, webhook.NewCommissionFinalizedEvent(entry)); err != nil {
		s.Logger.Errorw("failed to publish commission finalized event",
			"offer_id", entry.OfferID,
			"entry_id", entry.ID,
			"error", err)
	}
}

// isDeferredGiftCard reports whether commission for the context must wait
// for per-sale amounts
func isDeferredGiftCard(billingCtx *domainOffer.BillingContext) bool {
	return billingCtx.OfferType == types.OfferTypeGiftCard && billingCtx.SaleAmount == nil
}
