// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/concurrent"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// LinkService orchestrates link CRUD: every URL is sanitized and classified
// before it is persisted, and index/access messages fan out on every change.
type LinkService struct {
	LinkRepository domain.LinkRepository
	MessageSender  domain.MessageSender
	Classifier     *URLClassifier
	Config         ServiceConfig
}

// NewLinkService creates a new LinkService.
func NewLinkService(
	linkRepository domain.LinkRepository,
	messageSender domain.MessageSender,
	classifier *URLClassifier,
	config ServiceConfig,
) *LinkService {
	return &LinkService{
		LinkRepository: linkRepository,
		MessageSender:  messageSender,
		Classifier:     classifier,
		Config:         config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *LinkService) ServiceReady() bool {
	return s.LinkRepository != nil &&
		s.MessageSender != nil &&
		s.Classifier != nil
}

// CreateLink validates, screens, and classifies the submitted URL, persists
// the resulting link, and sends the indexing and access messages.
func (s *LinkService) CreateLink(ctx context.Context, req *models.CreateLinkRequest) (*models.Link, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("link service is not ready")
	}

	sanitized := s.Classifier.SanitizeURL(req.URL)
	if sanitized == "" {
		if !s.Classifier.IsValidURL(req.URL) {
			return nil, domain.NewValidationError("link URL is not a valid http(s) URL", domain.ErrInvalidURL)
		}
		return nil, domain.NewValidationError("link URL was rejected by safety screening", domain.ErrUnsafeURL)
	}

	classification := s.Classifier.IdentifyPlatform(sanitized)

	now := time.Now().UTC()
	link := &models.Link{
		UID:             uuid.New().String(),
		URL:             sanitized,
		OriginalURL:     req.URL,
		SubmitterUID:    req.SubmitterUID,
		Platform:        classification.Platform,
		PlatformIcon:    classification.PlatformIcon,
		IsKnownPlatform: classification.IsKnownPlatform,
		EmbedURL:        s.Classifier.EmbedURL(sanitized),
		Username:        s.Classifier.ExtractUsername(sanitized),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.LinkRepository.Create(ctx, link); err != nil {
		return nil, err
	}

	// Send the messages concurrently since they are independent of each other.
	pool := concurrent.NewWorkerPool(2)
	if err := pool.Run(ctx,
		func() error {
			return s.MessageSender.SendIndexLink(ctx, models.ActionCreated, link)
		},
		func() error {
			return s.MessageSender.SendUpdateAccessLink(ctx, models.LinkAccessMessage{
				UID:          link.UID,
				Public:       true,
				SubmitterUID: link.SubmitterUID,
			})
		},
	); err != nil {
		slog.ErrorContext(ctx, "error sending link messages", logging.ErrKey, err, "link_uid", link.UID)
		return nil, domain.NewInternalError("failed to send link messages", err)
	}

	slog.DebugContext(ctx, "created link", "link_uid", link.UID, "platform", link.Platform)

	return link, nil
}

// GetLink fetches a link and returns its revision as an ETag string.
func (s *LinkService) GetLink(ctx context.Context, uid string) (*models.Link, string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, "", domain.NewUnavailableError("link service is not ready")
	}

	link, revision, err := s.LinkRepository.GetWithRevision(ctx, uid)
	if err != nil {
		return nil, "", err
	}

	return link, strconv.FormatUint(revision, 10), nil
}

// ListLinks returns one page of links matching the request.
func (s *LinkService) ListLinks(ctx context.Context, req models.PageRequest) (*models.PageResult[*models.Link], error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("link service is not ready")
	}

	if req.PageSize <= 0 {
		req.PageSize = constants.DefaultPageSize
	}
	if req.PageSize > constants.MaxPageSize {
		req.PageSize = constants.MaxPageSize
	}

	return s.LinkRepository.List(ctx, req)
}

// DeleteLink deletes a link after checking the revision and sends the
// deletion messages.
func (s *LinkService) DeleteLink(ctx context.Context, uid string, revision uint64) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("link service is not ready")
	}

	if s.Config.SkipEtagValidation {
		var err error
		_, revision, err = s.LinkRepository.GetWithRevision(ctx, uid)
		if err != nil {
			return err
		}
	}

	if err := s.LinkRepository.Delete(ctx, uid, revision); err != nil {
		return err
	}

	pool := concurrent.NewWorkerPool(2)
	if err := pool.Run(ctx,
		func() error {
			return s.MessageSender.SendDeleteIndexLink(ctx, uid)
		},
		func() error {
			return s.MessageSender.SendDeleteAllAccessLink(ctx, uid)
		},
	); err != nil {
		slog.ErrorContext(ctx, "error sending link deletion messages", logging.ErrKey, err, "link_uid", uid)
		return domain.NewInternalError("failed to send link deletion messages", err)
	}

	slog.DebugContext(ctx, "deleted link", "link_uid", uid)

	return nil
}
