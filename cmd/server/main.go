package main

import (
	"context"
	"net/http"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api"
	v1 "github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/v1"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/cache"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	domainApproval "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/approval"
	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	domainModifier "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/modifier"
	domainOffer "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/offer"
	domainRate "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/rate"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	pgclient "github.com/NexaRift25/tilbod-admin-company-sub001/internal/postgres"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/repository"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/sentry"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/service"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/webhook"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			newPostgresClient,
			cache.Initialize,
			webhook.NewPublisher,
			repository.NewRateRepository,
			repository.NewModifierRepository,
			repository.NewOfferRepository,
			repository.NewApprovalRepository,
			repository.NewLedgerRepository,
			newServiceParams,
			service.NewRateService,
			service.NewModifierService,
			service.NewCommissionService,
			service.NewApprovalService,
			service.NewReportService,
			newHandlers,
			newRouter,
		),
		fx.Invoke(sentry.Initialize),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newPostgresClient(cfg *config.Configuration, log *logger.Logger) (pgclient.IClient, error) {
	return pgclient.NewClient(cfg, log)
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db pgclient.IClient,
	c cache.Cache,
	publisher webhook.Publisher,
	rateRepo domainRate.Repository,
	modifierRepo domainModifier.Repository,
	offerRepo domainOffer.Repository,
	approvalRepo domainApproval.Repository,
	ledgerRepo domainLedger.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:       log,
		Config:       cfg,
		DB:           db,
		Cache:        c,
		RateRepo:     rateRepo,
		ModifierRepo: modifierRepo,
		OfferRepo:    offerRepo,
		ApprovalRepo: approvalRepo,
		LedgerRepo:   ledgerRepo,
		Publisher:    publisher,
	}
}

func newHandlers(
	rateSvc service.RateService,
	modifierSvc service.ModifierService,
	commissionSvc service.CommissionService,
	approvalSvc service.ApprovalService,
	reportSvc service.ReportService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(),
		Rate:     v1.NewRateHandler(rateSvc, log),
		Modifier: v1.NewModifierHandler(modifierSvc, log),
		Offer:    v1.NewOfferHandler(commissionSvc, approvalSvc, log),
		Report:   v1.NewReportHandler(reportSvc, log),
	}
}

func newRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

func startServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Configuration,
	publisher webhook.Publisher,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			if err := publisher.Close(); err != nil {
				log.Errorw("failed to close event publisher", "error", err)
			}
			return server.Shutdown(ctx)
		},
	})
}
