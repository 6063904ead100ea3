// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package constants

import "time"

// URL screening constraints
const (
	// MinURLLength is the minimum trimmed length for a candidate URL string.
	MinURLLength = 3

	// MinHostnameLength is the minimum hostname length for a valid URL.
	MinHostnameLength = 3

	// MaxHostnameLength is the maximum hostname length before a URL is
	// screened out as a likely homograph or obfuscation attempt.
	MaxHostnameLength = 50

	// MaxHostnameLabels is the maximum number of dot-separated hostname
	// labels before a URL is screened out for excessive subdomain depth.
	MaxHostnameLabels = 4
)

// Preview fetch constraints
const (
	// PreviewResolveTimeout is the outer deadline the resolver races the
	// preview fetch against.
	PreviewResolveTimeout = 15 * time.Second

	// PreviewFetchTimeout is the per-request timeout of the preview fetcher.
	PreviewFetchTimeout = 10 * time.Second

	// PreviewMaxRedirects is the maximum number of redirect hops the preview
	// fetcher follows.
	PreviewMaxRedirects = 3

	// PreviewMaxBodyBytes caps how much of a page body is read when looking
	// for preview metadata.
	PreviewMaxBodyBytes = 1 << 20

	// PreviewUserAgent is the fixed mobile user-agent sent with preview
	// fetches. Several platforms only serve OpenGraph tags to mobile clients.
	PreviewUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

// Pagination constraints
const (
	// DefaultPageSize is the page size used when a list request does not set one.
	DefaultPageSize = 20

	// MaxPageSize is the largest page size a list request may ask for.
	MaxPageSize = 100
)
