// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// ReportService handles content reports filed against posts, comments, and users.
type ReportService struct {
	ReportRepository domain.ReportRepository
	MessageSender    domain.MessageSender
	Config           ServiceConfig
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepository domain.ReportRepository,
	messageSender domain.MessageSender,
	config ServiceConfig,
) *ReportService {
	return &ReportService{
		ReportRepository: reportRepository,
		MessageSender:    messageSender,
		Config:           config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ReportService) ServiceReady() bool {
	return s.ReportRepository != nil && s.MessageSender != nil
}

func validateCreateReportRequest(req *models.CreateReportRequest) error {
	if !req.ContentType.IsValid() {
		return domain.NewValidationError("content type must be one of post, comment, user")
	}
	if strings.TrimSpace(req.ContentID) == "" {
		return domain.NewValidationError("content ID is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return domain.NewValidationError("report reason is required")
	}
	// Comment reports need the parent post to locate the comment.
	if req.ContentType == models.ReportContentTypeComment && strings.TrimSpace(req.ParentID) == "" {
		return domain.NewValidationError("comment reports require a parent ID")
	}
	return nil
}

// CreateReport validates and persists a new report and sends the indexing
// message. The returned report carries the opaque UID callers reference
// later.
func (s *ReportService) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("report service is not ready")
	}

	if err := validateCreateReportRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &models.Report{
		UID:            uuid.New().String(),
		ContentType:    req.ContentType,
		ContentID:      req.ContentID,
		ReporterUID:    req.ReporterUID,
		Reason:         req.Reason,
		AdditionalInfo: req.AdditionalInfo,
		ParentID:       req.ParentID,
		Status:         models.ReportStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.ReportRepository.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := s.MessageSender.SendIndexReport(ctx, models.ActionCreated, report); err != nil {
		slog.ErrorContext(ctx, "error sending report index message", logging.ErrKey, err, "report_uid", report.UID)
		return nil, domain.NewInternalError("failed to send report index message", err)
	}

	slog.DebugContext(ctx, "created report",
		"report_uid", report.UID,
		"content_type", report.ContentType,
		"content_id", report.ContentID,
	)

	return report, nil
}

// GetReport fetches a report and returns its revision as an ETag string.
func (s *ReportService) GetReport(ctx context.Context, uid string) (*models.Report, string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, "", domain.NewUnavailableError("report service is not ready")
	}

	report, revision, err := s.ReportRepository.GetWithRevision(ctx, uid)
	if err != nil {
		return nil, "", err
	}

	return report, strconv.FormatUint(revision, 10), nil
}

// ListReports returns one page of reports matching the request.
func (s *ReportService) ListReports(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Report], error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("report service is not ready")
	}

	if req.PageSize <= 0 {
		req.PageSize = constants.DefaultPageSize
	}
	if req.PageSize > constants.MaxPageSize {
		req.PageSize = constants.MaxPageSize
	}

	return s.ReportRepository.List(ctx, req)
}

// UpdateReportStatus moves a pending report to reviewed or dismissed after
// checking the revision. Resolved reports cannot change status again.
func (s *ReportService) UpdateReportStatus(ctx context.Context, uid string, status models.ReportStatus, revision uint64) (*models.Report, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("report service is not ready")
	}

	if status != models.ReportStatusReviewed && status != models.ReportStatusDismissed {
		return nil, domain.NewValidationError("status must be reviewed or dismissed")
	}

	report, currentRevision, err := s.ReportRepository.GetWithRevision(ctx, uid)
	if err != nil {
		return nil, err
	}

	if s.Config.SkipEtagValidation {
		revision = currentRevision
	} else if revision != currentRevision {
		return nil, domain.NewConflictError("report was modified by another request")
	}

	if report.Status != models.ReportStatusPending {
		return nil, domain.NewConflictError(fmt.Sprintf("report is already %s", report.Status))
	}

	report.Status = status
	report.UpdatedAt = time.Now().UTC()

	if err := s.ReportRepository.Update(ctx, report, revision); err != nil {
		return nil, err
	}

	if err := s.MessageSender.SendIndexReport(ctx, models.ActionUpdated, report); err != nil {
		slog.ErrorContext(ctx, "error sending report index message", logging.ErrKey, err, "report_uid", report.UID)
		return nil, domain.NewInternalError("failed to send report index message", err)
	}

	slog.DebugContext(ctx, "updated report status", "report_uid", report.UID, "status", report.Status)

	return report, nil
}
