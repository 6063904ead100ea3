// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// RequestIDMiddleware assigns every request an ID, echoing the caller's
// X-REQUEST-ID header when one is present. The ID lands in the response
// headers, the request context, and every log line of the request.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), constants.RequestIDContextID, requestID)
			ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))

			w.Header().Set(constants.RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthContextMiddleware copies the request's authorization header into the
// context so downstream message publishing can forward it.
func AuthContextMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if authorization := r.Header.Get("Authorization"); authorization != "" {
				ctx = context.WithValue(ctx, constants.AuthorizationContextID, authorization)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
