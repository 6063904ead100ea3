// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

// PreviewOptions are the fetch parameters a preview provider must honor.
type PreviewOptions struct {
	// Timeout is the per-request timeout of the fetch itself. The resolver
	// additionally races the whole fetch against its own outer deadline.
	Timeout time.Duration

	// UserAgent is the fixed user-agent string sent with the request.
	UserAgent string

	// MaxRedirects is the maximum number of redirect hops to follow.
	MaxRedirects int
}

// PreviewProvider fetches preview metadata for an already-sanitized URL.
// Implementations must expect the URL to carry an explicit http(s) scheme.
type PreviewProvider interface {
	FetchPreview(ctx context.Context, normalizedURL string, opts PreviewOptions) (*models.PreviewMetadata, error)
}
