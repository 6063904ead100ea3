// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// handleCreateReport is the handler for POST /reports.
func (s *LinksAPI) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req models.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok && req.ReporterUID == "" {
		req.ReporterUID = principal
	}

	report, err := s.reportService.CreateReport(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, report)
}

// handleGetReport is the handler for GET /reports/{uid}.
func (s *LinksAPI) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	report, etag, err := s.reportService.GetReport(ctx, r.PathValue("uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, etag)
	writeJSON(ctx, w, http.StatusOK, report)
}

// handleListReports is the handler for GET /reports.
func (s *LinksAPI) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	req, err := pageRequestFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.reportService.ListReports(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

// updateReportStatusRequest is the body of PUT /reports/{uid}/status.
type updateReportStatusRequest struct {
	Status models.ReportStatus `json:"status"`
}

// handleUpdateReportStatus is the handler for PUT /reports/{uid}/status.
func (s *LinksAPI) handleUpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var revision uint64
	if !s.reportService.Config.SkipEtagValidation {
		revision, err = etagFromRequest(r)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	var req updateReportStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := s.reportService.UpdateReportStatus(ctx, r.PathValue("uid"), req.Status, revision)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, report)
}
