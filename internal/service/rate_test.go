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

type RateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RateService
}

func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceSuite))
}

func (s *RateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRateService(s.newParams())
}

func (s *RateServiceSuite) newParams() ServiceParams {
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

func (s *RateServiceSuite) TestUpsertFirstRule() {
	resp, err := s.service.UpsertRule(s.GetContext(), types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(25),
	})
	s.NoError(err)
	s.Equal(types.OfferTypeActive, resp.OfferType)
	s.Equal(types.BillingUnitDay, resp.BillingUnit)
	s.True(resp.Active)
	s.Equal(1, resp.Version)
}

func (s *RateServiceSuite) TestUpsertRetiresPriorRule() {
	ctx := s.GetContext()

	first, err := s.service.UpsertRule(ctx, types.OfferTypeWeekdays, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(100),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-time.Hour)),
	})
	s.NoError(err)

	second, err := s.service.UpsertRule(ctx, types.OfferTypeWeekdays, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(120),
	})
	s.NoError(err)
	s.NotEqual(first.ID, second.ID)

	retired, err := s.service.GetRule(ctx, first.ID)
	s.NoError(err)
	s.False(retired.Active)
	s.NotNil(retired.EffectiveTo)

	active, err := s.service.GetActiveRule(ctx, types.OfferTypeWeekdays, time.Now().UTC())
	s.NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *RateServiceSuite) TestHistoricalLookupResolvesRetiredRule() {
	ctx := s.GetContext()
	past := time.Now().UTC().Add(-48 * time.Hour)

	first, err := s.service.UpsertRule(ctx, types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(25),
		EffectiveFrom: lo.ToPtr(past),
	})
	s.NoError(err)

	_, err = s.service.UpsertRule(ctx, types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(30),
	})
	s.NoError(err)

	// A submission pinned before the new rule took effect still resolves
	// the retired version
	rule, err := s.service.GetActiveRule(ctx, types.OfferTypeActive, past.Add(time.Hour))
	s.NoError(err)
	s.Equal(first.ID, rule.ID)
	s.True(decimal.NewFromInt(25).Equal(rule.RateValue))
}

func (s *RateServiceSuite) TestToggleStaleVersionConflicts() {
	ctx := s.GetContext()

	created, err := s.service.UpsertRule(ctx, types.OfferTypeHappyHour, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(300),
	})
	s.NoError(err)

	// First toggle bumps the stored version
	_, err = s.service.ToggleRule(ctx, created.ID, &dto.ToggleRateRuleRequest{
		Active:  lo.ToPtr(false),
		Version: created.Version,
	})
	s.NoError(err)

	// Retrying with the original version must conflict, not silently win
	_, err = s.service.ToggleRule(ctx, created.ID, &dto.ToggleRateRuleRequest{
		Active:  lo.ToPtr(true),
		Version: created.Version,
	})
	s.Error(err)
	s.True(ierr.IsVersionConflict(err))
}

func (s *RateServiceSuite) TestReactivateConflictsWithActiveRule() {
	ctx := s.GetContext()

	first, err := s.service.UpsertRule(ctx, types.OfferTypeWeekdays, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(100),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-time.Hour)),
	})
	s.NoError(err)

	second, err := s.service.UpsertRule(ctx, types.OfferTypeWeekdays, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(120),
	})
	s.NoError(err)

	// Retirement bumped the first rule's version
	retired, err := s.service.GetRule(ctx, first.ID)
	s.NoError(err)
	s.False(retired.Active)

	// Re-activating the retired rule would put two active rules on the
	// same offer type; the store rejects it the way the partial unique
	// index does
	_, err = s.service.ToggleRule(ctx, first.ID, &dto.ToggleRateRuleRequest{
		Active:  lo.ToPtr(true),
		Version: retired.Version,
	})
	s.Error(err)
	s.True(ierr.IsVersionConflict(err))

	// The second rule keeps the active slot
	active, err := s.service.GetActiveRule(ctx, types.OfferTypeWeekdays, time.Now().UTC())
	s.NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *RateServiceSuite) TestGetActiveRuleMissing() {
	_, err := s.service.GetActiveRule(s.GetContext(), types.OfferTypeGiftCard, time.Now().UTC())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *RateServiceSuite) TestGetRuleHistoryNewestFirst() {
	ctx := s.GetContext()

	_, err := s.service.UpsertRule(ctx, types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(20),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-2 * time.Hour)),
	})
	s.NoError(err)

	latest, err := s.service.UpsertRule(ctx, types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(25),
	})
	s.NoError(err)

	history, err := s.service.GetRuleHistory(ctx, types.OfferTypeActive)
	s.NoError(err)
	s.Equal(2, history.Total)
	s.Equal(latest.ID, history.Items[0].ID)
}

func (s *RateServiceSuite) TestUpsertRejectsNegativeRate() {
	_, err := s.service.UpsertRule(s.GetContext(), types.OfferTypeActive, &dto.UpsertRateRuleRequest{
		RateValue: decimal.NewFromInt(-5),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
