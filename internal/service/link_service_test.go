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

func newTestLinkService() (*LinkService, *mocks.MockLinkRepository, *mocks.MockMessageSender) {
	repo := &mocks.MockLinkRepository{}
	sender := &mocks.MockMessageSender{}
	svc := NewLinkService(repo, sender, newTestClassifier(), ServiceConfig{})
	return svc, repo, sender
}

func TestLinkService_ServiceReady(t *testing.T) {
	tests := []struct {
		name          string
		setupService  func() *LinkService
		expectedReady bool
	}{
		{
			name: "ready with all dependencies",
			setupService: func() *LinkService {
				svc, _, _ := newTestLinkService()
				return svc
			},
			expectedReady: true,
		},
		{
			name: "not ready - missing repository",
			setupService: func() *LinkService {
				return &LinkService{
					MessageSender: &mocks.MockMessageSender{},
					Classifier:    newTestClassifier(),
				}
			},
			expectedReady: false,
		},
		{
			name: "not ready - missing classifier",
			setupService: func() *LinkService {
				return &LinkService{
					LinkRepository: &mocks.MockLinkRepository{},
					MessageSender:  &mocks.MockMessageSender{},
				}
			},
			expectedReady: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedReady, tt.setupService().ServiceReady())
		})
	}
}

func TestLinkService_CreateLink(t *testing.T) {
	t.Run("sanitizes and classifies before persisting", func(t *testing.T) {
		svc, repo, sender := newTestLinkService()

		var created *models.Link
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Link")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.Link)
			}).
			Return(nil)
		sender.On("SendIndexLink", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)
		sender.On("SendUpdateAccessLink", mock.Anything, mock.Anything).Return(nil)

		link, err := svc.CreateLink(context.Background(), &models.CreateLinkRequest{
			URL:          "https://github.com/octocat#readme",
			SubmitterUID: "user-1",
		})

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "https://github.com/octocat", link.URL)
		assert.Equal(t, "https://github.com/octocat#readme", link.OriginalURL)
		assert.Equal(t, "GitHub", link.Platform)
		assert.True(t, link.IsKnownPlatform)
		assert.Equal(t, "octocat", link.Username)
		assert.NotEmpty(t, link.UID)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("invalid URL is rejected without persisting", func(t *testing.T) {
		svc, repo, _ := newTestLinkService()

		link, err := svc.CreateLink(context.Background(), &models.CreateLinkRequest{URL: "x"})

		assert.Nil(t, link)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidURL)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unsafe URL is rejected without persisting", func(t *testing.T) {
		svc, repo, _ := newTestLinkService()

		link, err := svc.CreateLink(context.Background(), &models.CreateLinkRequest{URL: "https://bit.ly/abc"})

		assert.Nil(t, link)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsafeURL)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("not ready", func(t *testing.T) {
		svc := &LinkService{}

		_, err := svc.CreateLink(context.Background(), &models.CreateLinkRequest{URL: "https://example.com"})

		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

func TestLinkService_GetLink(t *testing.T) {
	svc, repo, _ := newTestLinkService()
	expected := &models.Link{UID: "link-1", URL: "https://example.com"}
	repo.On("GetWithRevision", mock.Anything, "link-1").Return(expected, uint64(7), nil)

	link, etag, err := svc.GetLink(context.Background(), "link-1")

	require.NoError(t, err)
	assert.Equal(t, expected, link)
	assert.Equal(t, "7", etag)
}

func TestLinkService_ListLinks(t *testing.T) {
	svc, repo, _ := newTestLinkService()
	repo.On("List", mock.Anything, mock.MatchedBy(func(req models.PageRequest) bool {
		return req.PageSize == 20
	})).Return(&models.PageResult[*models.Link]{Items: []*models.Link{}}, nil)

	// A zero page size picks up the default.
	result, err := svc.ListLinks(context.Background(), models.PageRequest{})

	require.NoError(t, err)
	assert.NotNil(t, result)
	repo.AssertExpectations(t)
}

func TestLinkService_DeleteLink(t *testing.T) {
	t.Run("deletes with revision and sends messages", func(t *testing.T) {
		svc, repo, sender := newTestLinkService()
		repo.On("Delete", mock.Anything, "link-1", uint64(3)).Return(nil)
		sender.On("SendDeleteIndexLink", mock.Anything, "link-1").Return(nil)
		sender.On("SendDeleteAllAccessLink", mock.Anything, "link-1").Return(nil)

		err := svc.DeleteLink(context.Background(), "link-1", 3)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("skips etag validation when configured", func(t *testing.T) {
		repo := &mocks.MockLinkRepository{}
		sender := &mocks.MockMessageSender{}
		svc := NewLinkService(repo, sender, newTestClassifier(), ServiceConfig{SkipEtagValidation: true})

		repo.On("GetWithRevision", mock.Anything, "link-1").Return(&models.Link{UID: "link-1"}, uint64(9), nil)
		repo.On("Delete", mock.Anything, "link-1", uint64(9)).Return(nil)
		sender.On("SendDeleteIndexLink", mock.Anything, "link-1").Return(nil)
		sender.On("SendDeleteAllAccessLink", mock.Anything, "link-1").Return(nil)

		err := svc.DeleteLink(context.Background(), "link-1", 0)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
