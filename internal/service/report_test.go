package service

import (
	"strings"
	"testing"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/testutil"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportServiceSuite struct {
	testutil.BaseServiceTestSuite
	rates      RateService
	commission CommissionService
	approval   ApprovalService
	report     ReportService
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		RateRepo:     stores.RateRepo,
		ModifierRepo: stores.ModifierRepo,
		OfferRepo:    stores.OfferRepo,
		ApprovalRepo: stores.ApprovalRepo,
		LedgerRepo:   stores.LedgerRepo,
	}
	s.rates = NewRateService(params)
	s.commission = NewCommissionService(params)
	s.approval = NewApprovalService(params)
	s.report = NewReportService(params)
}

// finalizeOffer walks an offer through review so a final entry lands in the
// ledger
func (s *ReportServiceSuite) finalizeOffer(offerID string, offerType types.OfferType, days int) {
	ctx := s.GetContext()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.commission.CreateBillingContext(ctx, &dto.CreateBillingContextRequest{
		OfferID:     offerID,
		OfferType:   offerType,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, days),
	})
	s.Require().NoError(err)

	_, err = s.approval.SubmitForReview(ctx, offerID)
	s.Require().NoError(err)
	_, err = s.approval.Approve(ctx, offerID)
	s.Require().NoError(err)
}

func (s *ReportServiceSuite) seedRule(offerType types.OfferType, rateValue int64) {
	_, err := s.rates.UpsertRule(s.GetContext(), offerType, &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(rateValue),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-time.Hour)),
	})
	s.Require().NoError(err)
}

func (s *ReportServiceSuite) TestReportAggregatesByOfferType() {
	s.seedRule(types.OfferTypeActive, 25)
	s.seedRule(types.OfferTypeWeekdays, 100)

	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10) // 250
	s.finalizeOffer("offer_a2", types.OfferTypeActive, 4)  // 100
	s.finalizeOffer("offer_w1", types.OfferTypeWeekdays, 14) // 2 weeks, 200

	resp, err := s.report.GetCommissionReport(s.GetContext(), &dto.CommissionReportRequest{})
	s.NoError(err)
	s.Len(resp.Rows, 2)
	s.True(decimal.NewFromInt(550).Equal(resp.GrandTotal), "got %s", resp.GrandTotal)

	byType := map[types.OfferType]*dto.AggregateResponse{}
	for _, row := range resp.Rows {
		byType[row.OfferType] = row
	}
	s.Equal(2, byType[types.OfferTypeActive].EntryCount)
	s.True(decimal.NewFromInt(350).Equal(byType[types.OfferTypeActive].TotalAmount))
	s.Equal(1, byType[types.OfferTypeWeekdays].EntryCount)
	s.True(decimal.NewFromInt(200).Equal(byType[types.OfferTypeWeekdays].TotalAmount))
}

func (s *ReportServiceSuite) TestReportFiltersByOfferType() {
	s.seedRule(types.OfferTypeActive, 25)
	s.seedRule(types.OfferTypeWeekdays, 100)
	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10)
	s.finalizeOffer("offer_w1", types.OfferTypeWeekdays, 7)

	resp, err := s.report.GetCommissionReport(s.GetContext(), &dto.CommissionReportRequest{
		OfferType: lo.ToPtr(types.OfferTypeActive),
	})
	s.NoError(err)
	s.Len(resp.Rows, 1)
	s.Equal(types.OfferTypeActive, resp.Rows[0].OfferType)
}

func (s *ReportServiceSuite) TestReportWindowExcludesOutsideEntries() {
	s.seedRule(types.OfferTypeActive, 25)
	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10)

	future := time.Now().UTC().Add(time.Hour)
	resp, err := s.report.GetCommissionReport(s.GetContext(), &dto.CommissionReportRequest{
		From: lo.ToPtr(future),
	})
	s.NoError(err)
	s.Empty(resp.Rows)
	s.True(resp.GrandTotal.IsZero())
}

func (s *ReportServiceSuite) TestReportIgnoresDrafts() {
	ctx := s.GetContext()
	s.seedRule(types.OfferTypeActive, 25)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.commission.CreateBillingContext(ctx, &dto.CreateBillingContextRequest{
		OfferID:     "offer_draft",
		OfferType:   types.OfferTypeActive,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 10),
	})
	s.Require().NoError(err)
	_, err = s.approval.SubmitForReview(ctx, "offer_draft")
	s.Require().NoError(err)

	resp, err := s.report.GetCommissionReport(ctx, &dto.CommissionReportRequest{})
	s.NoError(err)
	s.Empty(resp.Rows)
}

func (s *ReportServiceSuite) TestExportCommissionCSV() {
	s.seedRule(types.OfferTypeActive, 25)
	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10)

	data, err := s.report.ExportCommissionCSV(s.GetContext(), &dto.CommissionReportRequest{})
	s.NoError(err)

	csv := string(data)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	s.Len(lines, 2)
	s.Contains(lines[0], "entry_id")
	s.Contains(lines[0], "computed_amount")
	s.Contains(lines[1], "offer_a1")
	s.Contains(lines[1], "250")
}

func (s *ReportServiceSuite) TestListFinalEntries() {
	s.seedRule(types.OfferTypeActive, 25)
	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10)
	s.finalizeOffer("offer_a2", types.OfferTypeActive, 4)

	resp, err := s.report.ListFinalEntries(s.GetContext(), &dto.CommissionReportRequest{})
	s.NoError(err)
	s.Equal(2, resp.Total)
	for _, item := range resp.Items {
		s.Equal(types.CommissionEntryStatusFinal, item.EntryStatus)
	}
}

func (s *ReportServiceSuite) TestListFinalEntriesPaginates() {
	s.seedRule(types.OfferTypeActive, 25)
	s.finalizeOffer("offer_a1", types.OfferTypeActive, 10)
	s.finalizeOffer("offer_a2", types.OfferTypeActive, 4)
	s.finalizeOffer("offer_a3", types.OfferTypeActive, 7)

	page, err := s.report.ListFinalEntries(s.GetContext(), &dto.CommissionReportRequest{
		Limit: lo.ToPtr(2),
	})
	s.NoError(err)
	s.Len(page.Items, 2)
	s.Equal(2, page.Limit)
	s.Equal(0, page.Offset)

	rest, err := s.report.ListFinalEntries(s.GetContext(), &dto.CommissionReportRequest{
		Limit:  lo.ToPtr(2),
		Offset: lo.ToPtr(2),
	})
	s.NoError(err)
	s.Len(rest.Items, 1)
	s.Equal(2, rest.Offset)

	// No entry appears on both pages
	seen := map[string]bool{}
	for _, item := range page.Items {
		seen[item.ID] = true
	}
	for _, item := range rest.Items {
		s.False(seen[item.ID])
	}
}
