package service

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/proration"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/webhook"
)

// CommissionService computes commissions and maintains the ledger around an
// offer's review cycle
type CommissionService interface {
	CreateBillingContext(ctx context.Context, req *dto.CreateBillingContextRequest) (*dto.BillingContextResponse, error)
	GetBillingContext(ctx context.Context, offerID string) (*dto.BillingContextResponse, error)
	PreviewCommission(ctx context.Context, offerID string) (*dto.CommissionEntryResponse, error)
	RecordGiftCardSale(ctx context.Context, offerID string, req *dto.GiftCardSaleRequest) (*dto.CommissionEntryResponse, error)
	GetFinalEntry(ctx context.Context, offerID string) (*dto.CommissionEntryResponse, error)

	// ComputeDraft recomputes and stores the draft entry for an offer,
	// returning the domain entry. Used by the approval flow on submission
	// and on finalization.
	ComputeDraft(ctx context.Context, billingCtx *domainOffer.BillingContext) (*domainLedger.CommissionEntry, error)
}

type commissionService struct {
	ServiceParams
}

// NewCommissionService creates a commission ledger service
func NewCommissionService(params ServiceParams) CommissionService {
	return &commissionService{ServiceParams: params}
}

// CreateBillingContext registers an offer for commission review. The billing
// context and the initial draft approval are written together; the stored
// submitted_at pins which rate rule version the whole review cycle uses.
func (s *commissionService) CreateBillingContext(ctx context.Context, req *dto.CreateBillingContextRequest) (*dto.BillingContextResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	submittedAt := time.Now().UTC()
	billingCtx := req.ToBillingContext(ctx, submittedAt)
	if err := billingCtx.Validate(); err != nil {
		return nil, err
	}

	// The rule must resolve now so a submission against an uncovered offer
	// type fails immediately rather than at approval time
	if _, err := s.RateRepo.GetActiveRule(ctx, billingCtx.OfferType, submittedAt); err != nil {
		return nil, err
	}

	approval := req.ToApproval(ctx, submittedAt)
	if err := approval.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.OfferRepo.Create(ctx, billingCtx); err != nil {
			return err
		}
		return s.ApprovalRepo.Create(ctx, approval)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("billing context created",
		"offer_id", billingCtx.OfferID,
		"offer_type", billingCtx.OfferType,
		"subject_kind", approval.SubjectKind,
		"submitted_at", submittedAt)

	return dto.NewBillingContextResponse(billingCtx), nil
}

func (s *commissionService) GetBillingContext(ctx context.Context, offerID string) (*dto.BillingContextResponse, error) {
	billingCtx, err := s.OfferRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return dto.NewBillingContextResponse(billingCtx), nil
}

// PreviewCommission computes the offer's commission with the rule pinned at
// submission time and stores it as the replaceable draft entry
func (s *commissionService) PreviewCommission(ctx context.Context, offerID string) (*dto.CommissionEntryResponse, error) {
	billingCtx, err := s.OfferRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	entry, err := s.ComputeDraft(ctx, billingCtx)
	if err != nil {
		return nil, err
	}
	return dto.NewCommissionEntryResponse(entry), nil
}

// ComputeDraft resolves the rule in effect at the context's submission time,
// runs the offer type's calculation, and upserts the draft ledger entry
func (s *commissionService) ComputeDraft(ctx context.Context, billingCtx *domainOffer.BillingContext) (*domainLedger.CommissionEntry, error) {
	rule, err := s.RateRepo.GetActiveRule(ctx, billingCtx.OfferType, billingCtx.SubmittedAt)
	if err != nil {
		return nil, err
	}

	result, err := proration.Compute(billingCtx, rule)
	if err != nil {
		return nil, err
	}

	entry := &domainLedger.CommissionEntry{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMISSION_ENTRY),
		OfferID:        billingCtx.OfferID,
		RuleID:         rule.ID,
		OfferType:      billingCtx.OfferType,
		BillableUnits:  result.BillableUnits,
		ComputedAmount: result.Amount,
		Breakdown:      result.Breakdown,
		ComputedAt:     time.Now().UTC(),
		EntryStatus:    types.CommissionEntryStatusDraft,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.UpsertDraft(ctx, entry); err != nil {
		return nil, err
	}

	s.Logger.Debugw("draft commission computed",
		"offer_id", entry.OfferID,
		"rule_id", entry.RuleID,
		"amount", entry.ComputedAmount)

	return entry, nil
}

// RecordGiftCardSale appends a final per-sale commission entry for an
// approved gift card offer. Each sale ref is recorded at most once.
func (s *commissionService) RecordGiftCardSale(ctx context.Context, offerID string, req *dto.GiftCardSaleRequest) (*dto.CommissionEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	billingCtx, err := s.OfferRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if billingCtx.OfferType != types.OfferTypeGiftCard {
		return nil, ierr.NewErrorf("offer %s is %s, not gift_card", offerID, billingCtx.OfferType).
			WithHint("Per-sale commission entries only apply to gift card offers").
			Mark(ierr.ErrInvalidOperation)
	}

	approval, err := s.ApprovalRepo.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if approval.State != types.ApprovalStateApproved {
		return nil, ierr.NewErrorf("offer %s is not approved", offerID).
			WithHint("Gift card sales can only be recorded against approved offers").
			WithReportableDetails(map[string]interface{}{
				"offer_id": offerID,
				"state":    approval.State,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// Compute against a copy carrying this sale's amount; the stored context
	// stays untouched
	saleCtx := *billingCtx
	saleAmount := req.SaleAmount
	saleCtx.SaleAmount = &saleAmount

	rule, err := s.RateRepo.GetActiveRule(ctx, billingCtx.OfferType, billingCtx.SubmittedAt)
	if err != nil {
		return nil, err
	}

	result, err := proration.Compute(&saleCtx, rule)
	if err != nil {
		return nil, err
	}

	entry := &domainLedger.CommissionEntry{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMISSION_ENTRY),
		OfferID:        offerID,
		SaleRef:        req.SaleRef,
		RuleID:         rule.ID,
		OfferType:      billingCtx.OfferType,
		BillableUnits:  result.BillableUnits,
		ComputedAmount: result.Amount,
		Breakdown:      result.Breakdown,
		ComputedAt:     time.Now().UTC(),
		EntryStatus:    types.CommissionEntryStatusFinal,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.CreateFinal(ctx, entry); err != nil {
		return nil, err
	}

	s.publishFinalized(ctx, entry)

	s.Logger.Infow("gift card sale recorded",
		"offer_id", offerID,
		"sale_ref", req.SaleRef,
		"amount", entry.ComputedAmount)

	return dto.NewCommissionEntryResponse(entry), nil
}

func (s *commissionService) GetFinalEntry(ctx context.Context, offerID string) (*dto.CommissionEntryResponse, error) {
	entry, err := s.LedgerRepo.GetFinal(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return dto.NewCommissionEntryResponse(entry), nil
}

// publishFinalized emits the finalized event. Publish failures are logged,
// never surfaced: the ledger row is already committed and is the source of
// truth.
func (s *commissionService) publishFinalized(ctx context.Context, entry *domainLedger.CommissionEntry) {
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
