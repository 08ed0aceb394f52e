// Package sentry wires error reporting. Initialization is a no-op when
// sentry is disabled in the configuration, so local runs need no DSN.
package sentry

import (
	"context"
	"time"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/fx"
)

const flushTimeout = 2 * time.Second

// Initialize sets up the sentry client and flushes it on shutdown
func Initialize(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) error {
	if !cfg.Sentry.Enabled {
		log.Debug("sentry disabled")
		return nil
	}

	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
	})
	if err != nil {
		return err
	}

	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentrygo.Flush(flushTimeout)
			return nil
		},
	})

	return nil
}
