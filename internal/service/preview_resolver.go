// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/concurrent"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/utils"
)

// PreviewResolver resolves rich link previews: it sanitizes and classifies a
// URL, delegates to the preview fetch provider raced against an outer
// timeout, and merges the classification into the fetched metadata. Fetch
// failures degrade to a fallback result; the resolver never returns an error.
type PreviewResolver struct {
	classifier *URLClassifier
	provider   domain.PreviewProvider
	timeout    time.Duration
	pool       *concurrent.WorkerPool
}

// NewPreviewResolver creates a new preview resolver. A non-positive timeout
// falls back to the default outer deadline.
func NewPreviewResolver(classifier *URLClassifier, provider domain.PreviewProvider, timeout time.Duration) *PreviewResolver {
	if timeout <= 0 {
		timeout = constants.PreviewResolveTimeout
	}
	return &PreviewResolver{
		classifier: classifier,
		provider:   provider,
		timeout:    timeout,
		pool:       concurrent.NewWorkerPool(4),
	}
}

// ServiceReady checks if the resolver has its dependencies.
func (r *PreviewResolver) ServiceReady() bool {
	return r.classifier != nil && r.provider != nil
}

type fetchOutcome struct {
	metadata *models.PreviewMetadata
	err      error
}

// ResolvePreview resolves a preview for a single raw URL. Malicious or
// invalid links degrade silently to the fallback result so callers can show
// the raw link instead of blocking on an error.
func (r *PreviewResolver) ResolvePreview(ctx context.Context, rawURL string) *models.PreviewResult {
	originalURL := strings.TrimSpace(rawURL)
	classification := r.classifier.IdentifyPlatform(originalURL)

	result := &models.PreviewResult{
		URL:             r.classifier.Normalize(originalURL),
		OriginalURL:     originalURL,
		Platform:        classification.Platform,
		PlatformIcon:    classification.PlatformIcon,
		IsKnownPlatform: classification.IsKnownPlatform,
	}

	sanitized := r.classifier.SanitizeURL(originalURL)
	if sanitized == "" {
		result.Title = originalURL
		result.Error = domain.ErrInvalidURL.Error()
		if r.classifier.IsValidURL(originalURL) {
			result.Error = domain.ErrUnsafeURL.Error()
		}
		return result
	}

	result.URL = sanitized
	result.EmbedURL = r.classifier.EmbedURL(sanitized)

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// The channel is buffered so a fetch that loses the race can still send
	// its outcome and exit; the result is simply discarded.
	outcomeChan := make(chan fetchOutcome, 1)
	go func() {
		metadata, err := r.provider.FetchPreview(fetchCtx, sanitized, domain.PreviewOptions{
			Timeout:      constants.PreviewFetchTimeout,
			UserAgent:    constants.PreviewUserAgent,
			MaxRedirects: constants.PreviewMaxRedirects,
		})
		outcomeChan <- fetchOutcome{metadata: metadata, err: err}
	}()

	select {
	case <-fetchCtx.Done():
		slog.WarnContext(ctx, "preview fetch timed out", "url", sanitized, "timeout", r.timeout.String())
		result.Title = originalURL
		result.Error = fetchCtx.Err().Error()
		return result
	case outcome := <-outcomeChan:
		if outcome.err != nil {
			slog.WarnContext(ctx, "preview fetch failed", logging.ErrKey, outcome.err, "url", sanitized)
			result.Title = originalURL
			result.Error = outcome.err.Error()
			return result
		}

		result.Title = utils.CoalesceString(outcome.metadata.Title, originalURL)
		result.Description = outcome.metadata.Description
		result.ImageURL = outcome.metadata.ImageURL
		result.SiteName = outcome.metadata.SiteName
		result.FaviconURL = outcome.metadata.FaviconURL
		return result
	}
}

// ResolvePreviews resolves previews for a batch of raw URLs concurrently.
// The returned slice is index-aligned with the input.
func (r *PreviewResolver) ResolvePreviews(ctx context.Context, rawURLs []string) []*models.PreviewResult {
	results := make([]*models.PreviewResult, len(rawURLs))

	functions := make([]func() error, len(rawURLs))
	for i, rawURL := range rawURLs {
		functions[i] = func() error {
			results[i] = r.ResolvePreview(ctx, rawURL)
			return nil
		}
	}

	// Individual resolutions never error, so the aggregate errors are only
	// context cancellations and can be ignored here.
	_ = r.pool.RunAll(ctx, functions...)

	return results
}
