// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/infrastructure/auth"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/service"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// LinksAPI implements the HTTP surface of the link service.
type LinksAPI struct {
	linkService     *service.LinkService
	reportService   *service.ReportService
	previewResolver *service.PreviewResolver
	jwtAuth         *auth.JWTAuth
}

// NewLinksAPI creates a new LinksAPI.
func NewLinksAPI(
	linkService *service.LinkService,
	reportService *service.ReportService,
	previewResolver *service.PreviewResolver,
	jwtAuth *auth.JWTAuth,
) *LinksAPI {
	return &LinksAPI{
		linkService:     linkService,
		reportService:   reportService,
		previewResolver: previewResolver,
		jwtAuth:         jwtAuth,
	}
}

// ServiceReady reports whether every service behind the API is ready.
func (s *LinksAPI) ServiceReady() bool {
	return s.linkService.ServiceReady() &&
		s.reportService.ServiceReady() &&
		s.previewResolver.ServiceReady()
}

// errorResponse is the JSON error body of the API.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFromError maps the domain error taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := statusFromError(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
	}
	writeJSON(ctx, w, code, errorResponse{
		Code:    strconv.Itoa(code),
		Message: err.Error(),
	})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "error encoding response", logging.ErrKey, err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid JSON request body", err)
	}
	return nil
}

// authenticate validates the request's bearer token and returns a context
// carrying the caller's principal.
func (s *LinksAPI) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return ctx, domain.NewValidationError("missing bearer token")
	}

	principal, err := s.jwtAuth.ParsePrincipal(ctx, token, slog.Default())
	if err != nil {
		return ctx, err
	}

	ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
	ctx = logging.AppendCtx(ctx, slog.String("principal", principal))
	return ctx, nil
}

// etagFromRequest reads the If-Match header as a KV revision.
func etagFromRequest(r *http.Request) (uint64, error) {
	header := strings.Trim(r.Header.Get("If-Match"), `"`)
	if header == "" {
		return 0, domain.NewValidationError("If-Match header is required")
	}
	revision, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("If-Match header must be a numeric revision", err)
	}
	return revision, nil
}

// pageRequestFromQuery builds a page request from list query parameters.
// Filters use the form ?filter=field==value or ?filter=field!=value and may
// repeat.
func pageRequestFromQuery(r *http.Request) (models.PageRequest, error) {
	req := models.PageRequest{}
	query := r.URL.Query()

	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return req, domain.NewValidationError("page_size must be a positive integer")
		}
		req.PageSize = size
	}

	req.StartAfter = query.Get("start_after")

	if field := query.Get("order_by"); field != "" {
		req.OrderBy = models.OrderBy{
			Field: field,
			Desc:  query.Get("order") == "desc",
		}
	}

	for _, raw := range query["filter"] {
		var filter models.Filter
		if field, value, ok := strings.Cut(raw, string(models.FilterOpNotEqual)); ok {
			filter = models.Filter{Field: field, Op: models.FilterOpNotEqual, Value: value}
		} else if field, value, ok := strings.Cut(raw, string(models.FilterOpEqual)); ok {
			filter = models.Filter{Field: field, Op: models.FilterOpEqual, Value: value}
		} else {
			return req, domain.NewValidationError("filter must use the form field==value or field!=value")
		}
		req.Filters = append(req.Filters, filter)
	}

	return req, nil
}

// handleLivez checks if the service is alive.
func (s *LinksAPI) handleLivez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// handleReadyz checks if the service is able to take inbound requests.
func (s *LinksAPI) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if !s.ServiceReady() {
		writeError(r.Context(), w, domain.NewUnavailableError("service not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}
