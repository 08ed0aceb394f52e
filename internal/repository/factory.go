package repository

import (
	domainApproval "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/repository/postgres"
)

// NewRateRepository returns the postgres backed rate rule repository
func NewRateRepository(client pgclient.IClient, log *logger.Logger) domainRate.Repository {
	return postgres.NewRateRepository(client, log)
}

// NewModifierRepository returns the postgres backed pricing modifier repository
func NewModifierRepository(client pgclient.IClient, log *logger.Logger) domainModifier.Repository {
	return postgres.NewModifierRepository(client, log)
}

// NewOfferRepository returns the postgres backed billing context repository
func NewOfferRepository(client pgclient.IClient, log *logger.Logger) domainOffer.Repository {
	return postgres.NewOfferRepository(client, log)
}

// NewApprovalRepository returns the postgres backed approval repository
func NewApprovalRepository(client pgclient.IClient, log *logger.Logger) domainApproval.Repository {
	return postgres.NewApprovalRepository(client, log)
}

// NewLedgerRepository returns the postgres backed commission ledger repository
func NewLedgerRepository(client pgclient.IClient, log *logger.Logger) domainLedger.Repository {
	return postgres.NewLedgerRepository(client, log)
}
