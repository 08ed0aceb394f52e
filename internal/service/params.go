package service

import (
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/cache"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	domainApproval "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/webhook"
)

// ServiceParams holds the dependencies shared by all services. Services
// embed it so adding a dependency does not ripple through every
// constructor.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     pgclient.IClient
	Cache  cache.Cache

	RateRepo     domainRate.Repository
	ModifierRepo domainModifier.Repository
	OfferRepo    domainOffer.Repository
	ApprovalRepo domainApproval.Repository
	LedgerRepo   domainLedger.Repository

	Publisher webhook.Publisher
}
