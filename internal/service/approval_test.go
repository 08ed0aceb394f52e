package service

import (
	"testing"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/testutil"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ApprovalServiceSuite struct {
	testutil.BaseServiceTestSuite
	rates      RateService
	commission CommissionService
	approval   ApprovalService
}

func TestApprovalService(t *testing.T) {
	suite.Run(t, new(ApprovalServiceSuite))
}

func (s *ApprovalServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := s.newParams()
	s.rates = NewRateService(params)
	s.commission = NewCommissionService(params)
	s.approval = NewApprovalService(params)
}

func (s *ApprovalServiceSuite) newParams() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		RateRepo:     stores.RateRepo,
		ModifierRepo: stores.ModifierRepo,
		OfferRepo:    stores.OfferRepo,
		ApprovalRepo: stores.ApprovalRepo,
		LedgerRepo:   stores.LedgerRepo,
	}
}

func (s *ApprovalServiceSuite) seedRule(offerType types.OfferType, rateValue int64) {
	_, err := s.rates.UpsertRule(s.GetContext(), offerType, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(rateValue),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-time.Hour)),
	})
	s.Require().NoError(err)
}

func (s *ApprovalServiceSuite) createOffer(offerID string, offerType types.OfferType, days int, saleAmount *decimal.Decimal) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.commission.CreateBillingContext(s.GetContext(), &dto.CreateBillingContextRequest{
		OfferID:     offerID,
		OfferType:   offerType,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, days),
		SaleAmount:  saleAmount,
	})
	s.Require().NoError(err)
}

func (s *ApprovalServiceSuite) TestFullApprovalLifecycle() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 10, nil)

	submitted, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStatePendingReview, submitted.State)
	s.Require().NotNil(submitted.Entry)
	s.Equal(types.CommissionEntryStatusDraft, submitted.Entry.EntryStatus)
	s.True(decimal.NewFromInt(250).Equal(submitted.Entry.ComputedAmount))

	approved, err := s.approval.Approve(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStateApproved, approved.State)
	s.Require().NotNil(approved.Entry)
	s.Equal(types.CommissionEntryStatusFinal, approved.Entry.EntryStatus)
	s.True(decimal.NewFromInt(250).Equal(approved.Entry.ComputedAmount))
	s.NotEmpty(approved.Entry.RuleID)
}

func (s *ApprovalServiceSuite) TestApproveIsIdempotent() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 5, nil)

	_, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)

	first, err := s.approval.Approve(ctx, "offer_1")
	s.NoError(err)
	s.Require().NotNil(first.Entry)

	second, err := s.approval.Approve(ctx, "offer_1")
	s.NoError(err)
	s.Require().NotNil(second.Entry)
	s.Equal(first.Entry.ID, second.Entry.ID)
	s.True(first.Entry.ComputedAmount.Equal(second.Entry.ComputedAmount))
}

func (s *ApprovalServiceSuite) TestSubmitFailureLeavesDraftState() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 10, nil)

	// Drop the rule out from under the submission so the draft compute
	// fails inside the transaction
	rule, err := s.rates.GetActiveRule(ctx, types.OfferTypeActive, time.Now().UTC())
	s.Require().NoError(err)
	s.GetStores().RateRepo.InMemoryStore.Delete(ctx, rule.ID)

	_, err = s.approval.SubmitForReview(ctx, "offer_1")
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	// The failed submission must not leave the offer half-transitioned
	resp, err := s.approval.GetApproval(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStateDraft, resp.State)
}

func (s *ApprovalServiceSuite) TestGetApprovalExposesDraftWhilePending() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 10, nil)

	_, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)

	// Reviewers reloading the approval see the stored draft, not a
	// recomputation
	resp, err := s.approval.GetApproval(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStatePendingReview, resp.State)
	s.Require().NotNil(resp.Entry)
	s.Equal(types.CommissionEntryStatusDraft, resp.Entry.EntryStatus)
	s.True(decimal.NewFromInt(250).Equal(resp.Entry.ComputedAmount))
}

func (s *ApprovalServiceSuite) TestApproveFromDraftFails() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 5, nil)

	_, err := s.approval.Approve(ctx, "offer_1")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ApprovalServiceSuite) TestFinalEntryImmuneToLaterRuleChanges() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 10, nil)

	_, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)
	approved, err := s.approval.Approve(ctx, "offer_1")
	s.Require().NoError(err)

	// A new rate card after finalization must not touch the stored entry
	s.seedRuleNow(types.OfferTypeActive, 99)

	entry, err := s.commission.GetFinalEntry(ctx, "offer_1")
	s.NoError(err)
	s.True(approved.Entry.ComputedAmount.Equal(entry.ComputedAmount))
	s.Equal(approved.Entry.RuleID, entry.RuleID)
}

func (s *ApprovalServiceSuite) seedRuleNow(offerType types.OfferType, rateValue int64) {
	_, err := s.rates.UpsertRule(s.GetContext(), offerType, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(rateValue),
	})
	s.Require().NoError(err)
}

func (s *ApprovalServiceSuite) TestRevisionCapForcesRejection() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeWeekdays, 100)
	s.createOffer("offer_1", types.OfferTypeWeekdays, 14, nil)

	// Offer-kind approvals allow two revisions, the third rejects
	for i := 0; i < 2; i++ {
		_, err := s.approval.SubmitForReview(ctx, "offer_1")
		s.Require().NoError(err)

		resp, err := s.approval.RequestRevision(ctx, "offer_1")
		s.Require().NoError(err)
		s.Equal(types.ApprovalStateRevisionRequested, resp.State)
	}

	_, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)

	resp, err := s.approval.RequestRevision(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStateRejected, resp.State)

	// Rejected is terminal, the ledger never finalizes
	_, err = s.approval.Approve(ctx, "offer_1")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	_, err = s.GetStores().LedgerRepo.GetFinal(ctx, "offer_1")
	s.True(ierr.IsNotFound(err))
}

func (s *ApprovalServiceSuite) TestRejectSkipsLedger() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 5, nil)

	_, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)

	resp, err := s.approval.Reject(ctx, "offer_1")
	s.NoError(err)
	s.Equal(types.ApprovalStateRejected, resp.State)
	s.Nil(resp.Entry)

	_, err = s.GetStores().LedgerRepo.GetFinal(ctx, "offer_1")
	s.True(ierr.IsNotFound(err))
}

func (s *ApprovalServiceSuite) TestGiftCardDeferralAndPerSaleEntries() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeGiftCard, 5)
	s.createOffer("offer_gc", types.OfferTypeGiftCard, 30, nil)

	// No sale amount: submit and approve without any ledger entry
	submitted, err := s.approval.SubmitForReview(ctx, "offer_gc")
	s.NoError(err)
	s.Nil(submitted.Entry)

	approved, err := s.approval.Approve(ctx, "offer_gc")
	s.NoError(err)
	s.Equal(types.ApprovalStateApproved, approved.State)
	s.Nil(approved.Entry)

	// Each completed sale lands its own final entry
	entry, err := s.commission.RecordGiftCardSale(ctx, "offer_gc", &dto.GiftCardSaleRequest{
		SaleRef:    "sale_1",
		SaleAmount: decimal.NewFromInt(1000),
	})
	s.NoError(err)
	s.Equal("sale_1", entry.SaleRef)
	s.True(decimal.NewFromInt(50).Equal(entry.ComputedAmount))

	// The same sale ref must not be recorded twice
	_, err = s.commission.RecordGiftCardSale(ctx, "offer_gc", &dto.GiftCardSaleRequest{
		SaleRef:    "sale_1",
		SaleAmount: decimal.NewFromInt(1000),
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// A second sale is fine
	_, err = s.commission.RecordGiftCardSale(ctx, "offer_gc", &dto.GiftCardSaleRequest{
		SaleRef:    "sale_2",
		SaleAmount: decimal.NewFromInt(500),
	})
	s.NoError(err)
}

func (s *ApprovalServiceSuite) TestGiftCardSaleRequiresApproval() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeGiftCard, 5)
	s.createOffer("offer_gc", types.OfferTypeGiftCard, 30, nil)

	_, err := s.commission.RecordGiftCardSale(ctx, "offer_gc", &dto.GiftCardSaleRequest{
		SaleRef:    "sale_1",
		SaleAmount: decimal.NewFromInt(1000),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ApprovalServiceSuite) TestGiftCardWithUpfrontSaleAmountFinalizesOnApproval() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeGiftCard, 10)
	s.createOffer("offer_gc", types.OfferTypeGiftCard, 30, lo.ToPtr(decimal.NewFromInt(2000)))

	submitted, err := s.approval.SubmitForReview(ctx, "offer_gc")
	s.NoError(err)
	s.Require().NotNil(submitted.Entry)

	approved, err := s.approval.Approve(ctx, "offer_gc")
	s.NoError(err)
	s.Require().NotNil(approved.Entry)
	s.True(decimal.NewFromInt(200).Equal(approved.Entry.ComputedAmount))
}

func (s *ApprovalServiceSuite) TestCreateBillingContextRequiresRule() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.commission.CreateBillingContext(s.GetContext(), &dto.CreateBillingContextRequest{
		OfferID:     "offer_norule",
		OfferType:   types.OfferTypeActive,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 10),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ApprovalServiceSuite) TestCreateBillingContextRejectsInvertedDates() {
	s.seedRule(types.OfferTypeActive, 25)
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.commission.CreateBillingContext(s.GetContext(), &dto.CreateBillingContextRequest{
		OfferID:     "offer_bad",
		OfferType:   types.OfferTypeActive,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, -3),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ApprovalServiceSuite) TestSubmissionPinsRuleVersion() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)
	s.createOffer("offer_1", types.OfferTypeActive, 10, nil)

	submitted, err := s.approval.SubmitForReview(ctx, "offer_1")
	s.Require().NoError(err)
	pinnedRule := submitted.Entry.RuleID

	// A mid-review rate change must not shift the finalized amount
	s.seedRuleNow(types.OfferTypeActive, 40)

	approved, err := s.approval.Approve(ctx, "offer_1")
	s.NoError(err)
	s.Equal(pinnedRule, approved.Entry.RuleID)
	s.True(decimal.NewFromInt(250).Equal(approved.Entry.ComputedAmount))
}
