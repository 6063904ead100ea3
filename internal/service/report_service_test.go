// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/mocks"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

func newTestReportService() (*ReportService, *mocks.MockReportRepository, *mocks.MockMessageSender) {
	repo := &mocks.MockReportRepository{}
	sender := &mocks.MockMessageSender{}
	svc := NewReportService(repo, sender, ServiceConfig{})
	return svc, repo, sender
}

func TestReportService_CreateReport(t *testing.T) {
	validReq := func() *models.CreateReportRequest {
		return &models.CreateReportRequest{
			ContentType: models.ReportContentTypePost,
			ContentID:   "post-1",
			ReporterUID: "user-1",
			Reason:      "spam",
		}
	}

	t.Run("creates pending report and sends index message", func(t *testing.T) {
		svc, repo, sender := newTestReportService()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Report")).Return(nil)
		sender.On("SendIndexReport", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

		report, err := svc.CreateReport(context.Background(), validReq())

		require.NoError(t, err)
		assert.NotEmpty(t, report.UID)
		assert.Equal(t, models.ReportStatusPending, report.Status)
		assert.False(t, report.CreatedAt.IsZero())
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*models.CreateReportRequest)
		}{
			{
				name:   "unknown content type",
				mutate: func(r *models.CreateReportRequest) { r.ContentType = "page" },
			},
			{
				name:   "missing content ID",
				mutate: func(r *models.CreateReportRequest) { r.ContentID = "  " },
			},
			{
				name:   "missing reason",
				mutate: func(r *models.CreateReportRequest) { r.Reason = "" },
			},
			{
				name: "comment report without parent",
				mutate: func(r *models.CreateReportRequest) {
					r.ContentType = models.ReportContentTypeComment
					r.ParentID = ""
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, repo, _ := newTestReportService()
				req := validReq()
				tt.mutate(req)

				report, err := svc.CreateReport(context.Background(), req)

				assert.Nil(t, report)
				require.Error(t, err)
				assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("comment report with parent succeeds", func(t *testing.T) {
		svc, repo, sender := newTestReportService()
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		sender.On("SendIndexReport", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

		req := validReq()
		req.ContentType = models.ReportContentTypeComment
		req.ContentID = "comment-1"
		req.ParentID = "post-1"

		report, err := svc.CreateReport(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "post-1", report.ParentID)
	})
}

func TestReportService_GetReport(t *testing.T) {
	svc, repo, _ := newTestReportService()
	expected := &models.Report{UID: "report-1"}
	repo.On("GetWithRevision", mock.Anything, "report-1").Return(expected, uint64(4), nil)

	report, etag, err := svc.GetReport(context.Background(), "report-1")

	require.NoError(t, err)
	assert.Equal(t, expected, report)
	assert.Equal(t, "4", etag)
}

func TestReportService_UpdateReportStatus(t *testing.T) {
	t.Run("updates status with matching revision", func(t *testing.T) {
		svc, repo, sender := newTestReportService()
		stored := &models.Report{UID: "report-1", Status: models.ReportStatusPending}
		repo.On("GetWithRevision", mock.Anything, "report-1").Return(stored, uint64(2), nil)
		repo.On("Update", mock.Anything, mock.Anything, uint64(2)).Return(nil)
		sender.On("SendIndexReport", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

		report, err := svc.UpdateReportStatus(context.Background(), "report-1", models.ReportStatusReviewed, 2)

		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusReviewed, report.Status)
		repo.AssertExpectations(t)
	})

	t.Run("stale revision conflicts", func(t *testing.T) {
		svc, repo, _ := newTestReportService()
		stored := &models.Report{UID: "report-1", Status: models.ReportStatusPending}
		repo.On("GetWithRevision", mock.Anything, "report-1").Return(stored, uint64(5), nil)

		report, err := svc.UpdateReportStatus(context.Background(), "report-1", models.ReportStatusDismissed, 2)

		assert.Nil(t, report)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newTestReportService()

		_, err := svc.UpdateReportStatus(context.Background(), "report-1", "archived", 1)

		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("pending is not a valid target status", func(t *testing.T) {
		svc, repo, _ := newTestReportService()

		_, err := svc.UpdateReportStatus(context.Background(), "report-1", models.ReportStatusPending, 1)

		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "GetWithRevision", mock.Anything, mock.Anything)
	})

	t.Run("resolved report cannot change status again", func(t *testing.T) {
		svc, repo, _ := newTestReportService()
		stored := &models.Report{UID: "report-1", Status: models.ReportStatusReviewed}
		repo.On("GetWithRevision", mock.Anything, "report-1").Return(stored, uint64(3), nil)

		report, err := svc.UpdateReportStatus(context.Background(), "report-1", models.ReportStatusDismissed, 3)

		assert.Nil(t, report)
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips etag validation when configured", func(t *testing.T) {
		repo := &mocks.MockReportRepository{}
		sender := &mocks.MockMessageSender{}
		svc := NewReportService(repo, sender, ServiceConfig{SkipEtagValidation: true})

		stored := &models.Report{UID: "report-1", Status: models.ReportStatusPending}
		repo.On("GetWithRevision", mock.Anything, "report-1").Return(stored, uint64(8), nil)
		repo.On("Update", mock.Anything, mock.Anything, uint64(8)).Return(nil)
		sender.On("SendIndexReport", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

		_, err := svc.UpdateReportStatus(context.Background(), "report-1", models.ReportStatusReviewed, 0)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
