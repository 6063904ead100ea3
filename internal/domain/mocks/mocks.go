// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package mocks contains testify doubles for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// MockLinkRepository implements domain.LinkRepository for testing
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) Exists(ctx context.Context, linkUID string) (bool, error) {
	args := m.Called(ctx, linkUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLinkRepository) Get(ctx context.Context, linkUID string) (*models.Link, error) {
	args := m.Called(ctx, linkUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Link), args.Error(1)
}

func (m *MockLinkRepository) GetWithRevision(ctx context.Context, linkUID string) (*models.Link, uint64, error) {
	args := m.Called(ctx, linkUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Link), args.Get(1).(uint64), args.Error(2)
}

func (m *MockLinkRepository) Update(ctx context.Context, link *models.Link, revision uint64) error {
	args := m.Called(ctx, link, revision)
	return args.Error(0)
}

func (m *MockLinkRepository) Delete(ctx context.Context, linkUID string, revision uint64) error {
	args := m.Called(ctx, linkUID, revision)
	return args.Error(0)
}

func (m *MockLinkRepository) List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Link], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PageResult[*models.Link]), args.Error(1)
}

// MockReportRepository implements domain.ReportRepository for testing
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) Get(ctx context.Context, reportUID string) (*models.Report, error) {
	args := m.Called(ctx, reportUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) GetWithRevision(ctx context.Context, reportUID string) (*models.Report, uint64, error) {
	args := m.Called(ctx, reportUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Report), args.Get(1).(uint64), args.Error(2)
}

func (m *MockReportRepository) Update(ctx context.Context, report *models.Report, revision uint64) error {
	args := m.Called(ctx, report, revision)
	return args.Error(0)
}

func (m *MockReportRepository) List(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Report], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PageResult[*models.Report]), args.Error(1)
}

// MockMessageSender implements domain.MessageSender for testing
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendIndexLink(ctx context.Context, action models.MessageAction, data *models.Link) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageSender) SendDeleteIndexLink(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageSender) SendIndexReport(ctx context.Context, action models.MessageAction, data *models.Report) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageSender) SendDeleteIndexReport(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageSender) SendUpdateAccessLink(ctx context.Context, data models.LinkAccessMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageSender) SendDeleteAllAccessLink(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockPreviewProvider implements domain.PreviewProvider for testing
type MockPreviewProvider struct {
	mock.Mock
}

func (m *MockPreviewProvider) FetchPreview(ctx context.Context, normalizedURL string, opts domain.PreviewOptions) (*models.PreviewMetadata, error) {
	args := m.Called(ctx, normalizedURL, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreviewMetadata), args.Error(1)
}
