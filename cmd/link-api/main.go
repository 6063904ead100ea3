// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package main is the link service API that provides a RESTful API for
// submitting, classifying, and previewing links, and handles the service's
// NATS messages.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/handlers"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/infrastructure/messaging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/infrastructure/preview"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/service"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Set up the JWT validator used on mutating endpoints.
	jwtAuth, err := setupJWTAuth()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		os.Exit(1)
	}

	// Build the classifier from its tables, honoring any file override.
	classifierConfig, err := loadClassifierConfig(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading classifier tables")
		os.Exit(1)
	}
	classifier := service.NewURLClassifier(classifierConfig)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		SkipEtagValidation: env.SkipEtagValidation,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	linkService := service.NewLinkService(
		repos.Link,
		messageBuilder,
		classifier,
		serviceConfig,
	)
	reportService := service.NewReportService(
		repos.Report,
		messageBuilder,
		serviceConfig,
	)
	previewResolver := service.NewPreviewResolver(
		classifier,
		preview.NewOGFetcher(),
		constants.PreviewResolveTimeout,
	)

	// Initialize handlers
	linkHandler := handlers.NewLinkHandler(linkService, previewResolver)

	svc := NewLinksAPI(
		linkService,
		reportService,
		previewResolver,
		jwtAuth,
	)

	httpServer := setupHTTPServer(flags, svc, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, linkHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
