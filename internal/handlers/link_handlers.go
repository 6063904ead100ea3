// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package handlers contains the NATS message handlers of the service.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/service"
)

// LinkHandler handles link-related NATS messages.
type LinkHandler struct {
	linkService     *service.LinkService
	previewResolver *service.PreviewResolver
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(
	linkService *service.LinkService,
	previewResolver *service.PreviewResolver,
) *LinkHandler {
	return &LinkHandler{
		linkService:     linkService,
		previewResolver: previewResolver,
	}
}

// HandlerReady checks whether the handler's services are ready.
func (s *LinkHandler) HandlerReady() bool {
	return s.linkService.ServiceReady() && s.previewResolver.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (s *LinkHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	var response []byte
	var err error

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.LinkSanitizeSubject: s.HandleLinkSanitize,
		models.LinkClassifySubject: s.HandleLinkClassify,
		models.LinkGetTitleSubject: s.HandleLinkGetTitle,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		if msg.HasReply() {
			err = msg.Respond(nil)
			if err != nil {
				slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			}
		}
		return
	}

	response, err = handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message",
			logging.ErrKey, err,
		)
		if msg.HasReply() {
			err = msg.Respond(nil)
			if err != nil {
				slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			}
		}
		return
	}

	if msg.HasReply() {
		err = msg.Respond(response)
		if err != nil {
			slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			return
		}
		slog.DebugContext(ctx, "responded to NATS message", "response", response)
	} else {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
	}
}

// HandleLinkSanitize is the message handler for the link sanitize subject.
// The payload is a raw URL string; the reply is its sanitized form, which is
// empty when the URL is invalid or screened out.
func (s *LinkHandler) HandleLinkSanitize(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !s.linkService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	rawURL := strings.TrimSpace(string(msg.Data()))
	sanitized := s.linkService.Classifier.SanitizeURL(rawURL)

	slog.DebugContext(ctx, "sanitized URL", "rejected", sanitized == "")

	return []byte(sanitized), nil
}

// HandleLinkClassify is the message handler for the link classify subject.
// The payload is a JSON classify request; the reply carries the platform
// classification along with the embed URL and username when available.
func (s *LinkHandler) HandleLinkClassify(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !s.linkService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	var request models.ClassifyRequestMessage
	if err := json.Unmarshal(msg.Data(), &request); err != nil {
		slog.ErrorContext(ctx, "error unmarshaling classify request", logging.ErrKey, err)
		return nil, err
	}

	classifier := s.linkService.Classifier
	reply := models.ClassifyReplyMessage{
		ClassificationResult: classifier.IdentifyPlatform(request.URL),
		EmbedURL:             classifier.EmbedURL(request.URL),
		Username:             classifier.ExtractUsername(request.URL),
	}

	replyBytes, err := json.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling classify reply", logging.ErrKey, err)
		return nil, err
	}

	return replyBytes, nil
}

// HandleLinkGetTitle is the message handler for the link get-title subject.
// The payload is a link UID; the reply is the preview title of the stored
// link's URL.
func (s *LinkHandler) HandleLinkGetTitle(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !s.linkService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	linkUID := string(msg.Data())

	ctx = logging.AppendCtx(ctx, slog.String("link_uid", linkUID))

	// Validate that the link UID is a valid UUID.
	if _, err := uuid.Parse(linkUID); err != nil {
		slog.ErrorContext(ctx, "error parsing link UID", logging.ErrKey, err)
		return nil, err
	}

	link, err := s.linkService.LinkRepository.Get(ctx, linkUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting link from NATS KV", logging.ErrKey, err)
		return nil, err
	}

	result := s.previewResolver.ResolvePreview(ctx, link.URL)

	return []byte(result.Title), nil
}
