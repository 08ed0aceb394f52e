package testutil

import (
	"context"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories backing a service test
type Stores struct {
	RateRepo     *InMemoryRateStore
	ModifierRepo *InMemoryModifierStore
	OfferRepo    *InMemoryOfferStore
	ApprovalRepo *InMemoryApprovalStore
	LedgerRepo   *InMemoryLedgerStore
}

// NewStores creates a fresh set of in-memory stores
func NewStores() *Stores {
	return &Stores{
		RateRepo:     NewInMemoryRateStore(),
		ModifierRepo: NewInMemoryModifierStore(),
		OfferRepo:    NewInMemoryOfferStore(),
		ApprovalRepo: NewInMemoryApprovalStore(),
		LedgerRepo:   NewInMemoryLedgerStore(),
	}
}

// BaseServiceTestSuite provides the shared plumbing for service test suites:
// fresh in-memory stores per test, a test logger, default config and a
// context carrying a test operator.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores *Stores
	cfg    *config.Configuration
	log    *logger.Logger
	db     pgclient.IClient
}

// SetupTest initializes fresh state before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.stores = NewStores()
	s.db = NewNoopDBClient()
	s.ctx = types.SetUserID(context.Background(), "user_test")
}

// TearDownTest cleans up after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores = nil
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the in-memory stores
func (s *BaseServiceTestSuite) GetStores() *Stores {
	return s.stores
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

// GetDB returns a no-op database client; the stores replace real persistence
func (s *BaseServiceTestSuite) GetDB() pgclient.IClient {
	return s.db
}
