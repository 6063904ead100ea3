// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/middleware"
)

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, svc *LinksAPI, gracefulCloseWG *sync.WaitGroup) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", svc.handleLivez)
	mux.HandleFunc("GET /readyz", svc.handleReadyz)

	mux.HandleFunc("POST /links", svc.handleCreateLink)
	mux.HandleFunc("GET /links", svc.handleListLinks)
	mux.HandleFunc("GET /links/{uid}", svc.handleGetLink)
	mux.HandleFunc("DELETE /links/{uid}", svc.handleDeleteLink)
	mux.HandleFunc("POST /links/classify", svc.handleClassifyLink)
	mux.HandleFunc("POST /links/preview", svc.handlePreviewLink)

	mux.HandleFunc("POST /reports", svc.handleCreateReport)
	mux.HandleFunc("GET /reports", svc.handleListReports)
	mux.HandleFunc("GET /reports/{uid}", svc.handleGetReport)
	mux.HandleFunc("PUT /reports/{uid}/status", svc.handleUpdateReportStatus)

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.AuthContextMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
