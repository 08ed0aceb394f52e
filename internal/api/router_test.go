package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	v1 "github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/v1"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/testutil"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// RouterSuite exercises the published route shapes end to end against
// in-memory stores
type RouterSuite struct {
	testutil.BaseServiceTestSuite
	engine *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	stores := s.GetStores()
	params := service.ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		RateRepo:     stores.RateRepo,
		ModifierRepo: stores.ModifierRepo,
		OfferRepo:    stores.OfferRepo,
		ApprovalRepo: stores.ApprovalRepo,
		LedgerRepo:   stores.LedgerRepo,
	}

	log := s.GetLogger()
	handlers := Handlers{
		Health:   v1.NewHealthHandler(),
		Rate:     v1.NewRateHandler(service.NewRateService(params), log),
		Modifier: v1.NewModifierHandler(service.NewModifierService(params), log),
		Offer:    v1.NewOfferHandler(service.NewCommissionService(params), service.NewApprovalService(params), log),
		Report:   v1.NewReportHandler(service.NewReportService(params), log),
	}
	s.engine = NewRouter(handlers, s.GetConfig(), log)
}

func (s *RouterSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) putRule(offerType types.OfferType, rateValue int64) *dto.RateRuleResponse {
	rec := s.request(http.MethodPut, "/v1/rates/"+string(offerType), &dto.UpsertRateRuleRequest{
		RateValue:     decimal.NewFromInt(rateValue),
		EffectiveFrom: lo.ToPtr(time.Now().UTC().Add(-time.Hour)),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.RateRuleResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return &resp
}

func (s *RouterSuite) TestHealthRoute() {
	rec := s.request(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestRateRegistryRoutes() {
	created := s.putRule(types.OfferTypeActive, 25)
	s.Equal(types.OfferTypeActive, created.OfferType)

	rec := s.request(http.MethodGet, "/v1/rates", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/v1/rates/active/history", nil)
	s.Equal(http.StatusOK, rec.Code)

	// The toggle lives under the rule id, not the offer type
	rec = s.request(http.MethodPatch, "/v1/rates/"+created.ID+"/active", &dto.ToggleRateRuleRequest{
		Active:  lo.ToPtr(false),
		Version: created.Version,
	})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *RouterSuite) TestModifierRoutes() {
	// The upsert is addressed by the path id
	rec := s.request(http.MethodPut, "/v1/modifiers/mod_happy", &dto.UpsertModifierRequest{
		Kind:                 types.ModifierKindDiscount,
		ValueType:            types.ModifierValueTypePercentage,
		Value:                decimal.NewFromInt(10),
		ApplicableCategories: []string{"dining"},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ModifierResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("mod_happy", resp.ID)

	rec = s.request(http.MethodGet, "/v1/modifiers/mod_happy", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodPost, "/v1/modifiers/apply", &dto.ApplyModifiersRequest{
		BasePrice: decimal.NewFromInt(1000),
		Category:  "dining",
	})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *RouterSuite) TestOfferReviewRoutes() {
	s.putRule(types.OfferTypeActive, 25)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := s.request(http.MethodPost, "/v1/offers", &dto.CreateBillingContextRequest{
		OfferID:     "offer_1",
		OfferType:   types.OfferTypeActive,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 10),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/v1/offers/offer_1/preview-commission", nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/v1/offers/offer_1/submit", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/v1/offers/offer_1/approve", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodGet, "/v1/offers/offer_1/approval", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestGiftCardSaleRoute() {
	s.putRule(types.OfferTypeGiftCard, 5)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := s.request(http.MethodPost, "/v1/offers", &dto.CreateBillingContextRequest{
		OfferID:     "offer_gc",
		OfferType:   types.OfferTypeGiftCard,
		SubjectKind: types.SubjectKindOffer,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 30),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/v1/offers/offer_gc/submit", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	rec = s.request(http.MethodPost, "/v1/offers/offer_gc/approve", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.request(http.MethodPost, "/v1/offers/offer_gc/gift-card-sales", &dto.GiftCardSaleRequest{
		SaleRef:    "sale_1",
		SaleAmount: decimal.NewFromInt(1000),
	})
	s.Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *RouterSuite) TestReportRoutes() {
	rec := s.request(http.MethodGet, "/v1/reports/commissions", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/v1/reports/commissions/entries?limit=10", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.request(http.MethodGet, "/v1/reports/commissions/export", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
}
