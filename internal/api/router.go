package api

import (
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/v1"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers holds every HTTP handler wired into the router
type Handlers struct {
	Health   *v1.HealthHandler
	Rate     *v1.RateHandler
	Modifier *v1.ModifierHandler
	Offer    *v1.OfferHandler
	Report   *v1.ReportHandler
}

// NewRouter builds the gin engine with the standard middleware chain and
// the versioned route tree
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == config.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(log),
		gin.Recovery(),
	)

	router.GET("/health", handlers.Health.Health)

	root := router.Group("/v1")

	rates := root.Group("/rates")
	{
		rates.GET("", handlers.Rate.ListActiveRules)
		rates.PUT("/:offer_type", handlers.Rate.UpsertRule)
		rates.PATCH("/:id/active", handlers.Rate.ToggleRule)
		rates.GET("/:offer_type/history", handlers.Rate.GetRuleHistory)
		rates.GET("/:offer_type/active", handlers.Rate.GetActiveRule)
	}

	modifiers := root.Group("/modifiers")
	{
		modifiers.GET("", handlers.Modifier.ListModifiers)
		modifiers.PUT("/:id", handlers.Modifier.UpsertModifier)
		modifiers.POST("/apply", handlers.Modifier.ApplyModifiers)
		modifiers.GET("/:id", handlers.Modifier.GetModifier)
	}

	offers := root.Group("/offers")
	{
		offers.POST("", handlers.Offer.CreateBillingContext)
		offers.GET("/:id", handlers.Offer.GetBillingContext)
		offers.POST("/:id/preview-commission", handlers.Offer.PreviewCommission)
		offers.POST("/:id/submit", handlers.Offer.SubmitForReview)
		offers.POST("/:id/approve", handlers.Offer.Approve)
		offers.POST("/:id/request-revision", handlers.Offer.RequestRevision)
		offers.POST("/:id/reject", handlers.Offer.Reject)
		offers.GET("/:id/approval", handlers.Offer.GetApproval)
		offers.POST("/:id/gift-card-sales", handlers.Offer.RecordGiftCardSale)
	}

	reports := root.Group("/reports")
	{
		reports.GET("/commissions", handlers.Report.GetCommissionReport)
		reports.GET("/commissions/entries", handlers.Report.ListFinalEntries)
		reports.GET("/commissions/export", handlers.Report.ExportCommissionCSV)
	}

	return router
}
