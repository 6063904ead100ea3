// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// handleCreateLink is the handler for POST /links.
func (s *LinksAPI) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req models.CreateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok && req.SubmitterUID == "" {
		req.SubmitterUID = principal
	}

	link, err := s.linkService.CreateLink(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, link)
}

// handleGetLink is the handler for GET /links/{uid}.
func (s *LinksAPI) handleGetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	link, etag, err := s.linkService.GetLink(ctx, r.PathValue("uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, etag)
	writeJSON(ctx, w, http.StatusOK, link)
}

// handleListLinks is the handler for GET /links.
func (s *LinksAPI) handleListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := pageRequestFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.linkService.ListLinks(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// handleDeleteLink is the handler for DELETE /links/{uid}.
func (s *LinksAPI) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var revision uint64
	if !s.linkService.Config.SkipEtagValidation {
		revision, err = etagFromRequest(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	if err := s.linkService.DeleteLink(ctx, r.PathValue("uid"), revision); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusNoContent, nil)
}

// classifyRequest is the body of POST /links/classify.
type classifyRequest struct {
	URL string `json:"url"`
}

// classifyResponse is the response of POST /links/classify.
type classifyResponse struct {
	models.ClassificationResult
	SanitizedURL string `json:"sanitized_url"`
	EmbedURL     string `json:"embed_url,omitempty"`
	Username     string `json:"username,omitempty"`
}

// handleClassifyLink is the handler for POST /links/classify. Classification
// is read-only and total, so the endpoint never errors on URL content.
func (s *LinksAPI) handleClassifyLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	classifier := s.linkService.Classifier
	response := classifyResponse{
		ClassificationResult: classifier.IdentifyPlatform(req.URL),
		SanitizedURL:         classifier.SanitizeURL(req.URL),
		EmbedURL:             classifier.EmbedURL(req.URL),
		Username:             classifier.ExtractUsername(req.URL),
	}

	writeJSON(ctx, w, http.StatusOK, response)
}

// previewRequest is the body of POST /links/preview.
type previewRequest struct {
	URL  string   `json:"url,omitempty"`
	URLs []string `json:"urls,omitempty"`
}

// handlePreviewLink is the handler for POST /links/preview. It accepts either
// a single URL or a batch; the response is always a list of preview results
// aligned with the request order.
func (s *LinksAPI) handlePreviewLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	urls := req.URLs
	if req.URL != "" {
		urls = append([]string{req.URL}, urls...)
	}
	if len(urls) == 0 {
		writeError(ctx, w, domain.NewValidationError("at least one URL is required"))
		return
	}

	results := s.previewResolver.ResolvePreviews(ctx, urls)

	writeJSON(ctx, w, http.StatusOK, results)
}
