// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package service contains the business logic of the link service.
package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

var (
	// dottedQuadPattern matches bare IPv4-literal hostnames. The 0-255 range
	// is deliberately not enforced; anything shaped like an address is
	// screened out.
	dottedQuadPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

	numericPattern      = regexp.MustCompile(`^[0-9]+$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ClassifierConfig is the injected configuration of the URL classifier.
// The tables are read once at construction and never mutated afterwards.
type ClassifierConfig struct {
	// Platforms is the ordered platform registry. First match wins.
	Platforms []models.PlatformEntry

	// ShortenerDomains are registrable domains of URL shorteners.
	ShortenerDomains []string

	// SuspiciousTLDs are bare top-level domain labels with a poor reputation.
	SuspiciousTLDs []string
}

// URLClassifier validates, screens, classifies, and sanitizes user-supplied
// URLs. Every operation is total: parse failures degrade to a sentinel value
// (false, empty string, or the website fallback) and are never propagated.
type URLClassifier struct {
	platforms      []models.PlatformEntry
	blockedDomains map[string]bool
	usernameRules  []usernameRule
	embedRules     []embedRule
}

// usernameRule extracts a profile username for URLs whose hostname contains
// the given substring. The rules are evaluated in order because some
// platforms share structural path shapes.
type usernameRule struct {
	hostContains string
	extract      func(host string, segments []string) string
}

// embedRule derives a canonical embeddable URL for URLs whose hostname
// contains the given substring.
type embedRule struct {
	hostContains string
	derive       func(u *url.URL, normalized string, segments []string) string
}

// NewURLClassifier creates a new URL classifier from the given tables.
// Empty tables fall back to the built-in defaults.
func NewURLClassifier(config ClassifierConfig) *URLClassifier {
	if len(config.Platforms) == 0 {
		config.Platforms = models.DefaultPlatformRegistry()
	}
	if len(config.ShortenerDomains) == 0 {
		config.ShortenerDomains = models.DefaultShortenerDomains()
	}
	if len(config.SuspiciousTLDs) == 0 {
		config.SuspiciousTLDs = models.DefaultSuspiciousTLDs()
	}

	// The shortener and low-trust TLD tables stay separable in configuration
	// but feed a single merged set at screening time.
	blocked := make(map[string]bool, len(config.ShortenerDomains)+len(config.SuspiciousTLDs))
	for _, domain := range config.ShortenerDomains {
		blocked[strings.ToLower(domain)] = true
	}
	for _, tld := range config.SuspiciousTLDs {
		blocked[strings.ToLower(tld)] = true
	}

	c := &URLClassifier{
		platforms:      config.Platforms,
		blockedDomains: blocked,
	}
	c.usernameRules = buildUsernameRules()
	c.embedRules = buildEmbedRules()

	return c
}

// Normalize trims whitespace and prepends https:// when the input does not
// already carry an explicit http(s) scheme. Empty input yields empty output;
// callers must check emptiness themselves. No validation happens here.
func (c *URLClassifier) Normalize(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}

	return "https://" + trimmed
}

// IsValidURL reports whether the input parses as an http(s) URL with a
// plausible hostname. Parse failures are treated as invalid, not propagated.
func (c *URLClassifier) IsValidURL(rawURL string) bool {
	trimmed := strings.TrimSpace(rawURL)
	if len(trimmed) < constants.MinURLLength {
		return false
	}

	u, err := url.Parse(c.Normalize(trimmed))
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := u.Hostname()
	return len(host) >= constants.MinHostnameLength && strings.Contains(host, ".")
}

// IsPotentiallyMalicious screens a URL against the blocked-domain tables and
// a set of static heuristics. It fails toward unsafe: input that cannot be
// parsed is reported as malicious rather than waved through.
func (c *URLClassifier) IsPotentiallyMalicious(rawURL string) bool {
	u, err := url.Parse(c.Normalize(rawURL))
	if err != nil || u.Hostname() == "" {
		return true
	}

	host := strings.ToLower(u.Hostname())

	// Exact match against a blocked domain.
	if c.blockedDomains[host] {
		return true
	}

	// Subdomain of a blocked domain.
	for domain := range c.blockedDomains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	// The TLD itself is blocked (covers the bare-TLD table entries).
	labels := strings.Split(host, ".")
	if c.blockedDomains[labels[len(labels)-1]] {
		return true
	}

	// Bare IP-literal hosts are not allowed in user-submitted links.
	if dottedQuadPattern.MatchString(host) {
		return true
	}

	// Overlong hostnames are a common homograph/obfuscation vector.
	if len(host) > constants.MaxHostnameLength {
		return true
	}

	// Excessive subdomain depth.
	if len(labels) > constants.MaxHostnameLabels {
		return true
	}

	return false
}

// IdentifyPlatform matches the URL's hostname against the platform registry
// in registry order and returns the first match. Unparseable input and
// unknown hostnames both get the generic website fallback.
func (c *URLClassifier) IdentifyPlatform(rawURL string) models.ClassificationResult {
	u, err := url.Parse(c.Normalize(rawURL))
	if err != nil || u.Hostname() == "" {
		return models.WebsiteClassification()
	}

	host := strings.ToLower(u.Hostname())
	for _, entry := range c.platforms {
		if strings.Contains(host, entry.DomainSuffix) ||
			host == entry.DomainSuffix ||
			strings.HasSuffix(host, "."+entry.DomainSuffix) {
			return models.ClassificationResult{
				Platform:        entry.Name,
				PlatformIcon:    entry.IconTag,
				IsKnownPlatform: true,
			}
		}
	}

	return models.WebsiteClassification()
}

// ExtractUsername pulls a best-effort profile username out of a platform URL.
// Unknown platforms and path shapes that do not match return an empty string.
func (c *URLClassifier) ExtractUsername(rawURL string) string {
	if !c.IsValidURL(rawURL) {
		return ""
	}

	u, err := url.Parse(c.Normalize(rawURL))
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	segments := splitPathSegments(u.Path)

	for _, rule := range c.usernameRules {
		if strings.Contains(host, rule.hostContains) {
			return rule.extract(host, segments)
		}
	}

	return ""
}

// EmbedURL derives a canonical embeddable URL for platforms that offer one.
// Platforms without an embed rule and URLs whose identifier cannot be
// extracted return an empty string.
func (c *URLClassifier) EmbedURL(rawURL string) string {
	if !c.IsValidURL(rawURL) {
		return ""
	}

	normalized := c.Normalize(rawURL)
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	segments := splitPathSegments(u.Path)

	for _, rule := range c.embedRules {
		if strings.Contains(host, rule.hostContains) {
			return rule.derive(u, normalized, segments)
		}
	}

	return ""
}

// SanitizeURL is the single entry point callers should use before persisting
// or rendering a user-supplied URL. It composes validation, safety screening,
// scheme rejection, and fragment stripping; any failure yields empty string.
func (c *URLClassifier) SanitizeURL(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return ""
	}
	if !c.IsValidURL(rawURL) {
		return ""
	}
	if c.IsPotentiallyMalicious(rawURL) {
		return ""
	}

	u, err := url.Parse(c.Normalize(rawURL))
	if err != nil {
		return ""
	}

	// Defense in depth: validation already restricts the scheme to http(s),
	// but script-injection schemes are rejected here again so this function
	// stays safe even if the validation rules loosen.
	switch strings.ToLower(u.Scheme) {
	case "javascript", "data", "vbscript", "file":
		return ""
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// splitPathSegments splits a URL path into its non-empty segments.
func splitPathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// firstSegment returns the first path segment, or empty string.
func firstSegment(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

// segmentAfter returns the segment following the first occurrence of marker.
func segmentAfter(segments []string, marker string) string {
	for i, segment := range segments {
		if segment == marker && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

// buildUsernameRules returns the per-platform username extraction table.
// The order of the entries is the dispatch precedence.
func buildUsernameRules() []usernameRule {
	profileFromFirstSegment := func(_ string, segments []string) string {
		return firstSegment(segments)
	}

	return []usernameRule{
		{hostContains: "twitter.com", extract: profileFromFirstSegment},
		{hostContains: "instagram.com", extract: profileFromFirstSegment},
		{hostContains: "facebook.com", extract: profileFromFirstSegment},
		{hostContains: "github.com", extract: profileFromFirstSegment},
		{hostContains: "medium.com", extract: profileFromFirstSegment},
		{hostContains: "linkedin.com", extract: func(_ string, segments []string) string {
			if firstSegment(segments) == "in" {
				return segmentAfter(segments, "in")
			}
			return ""
		}},
		{hostContains: "youtube.com", extract: func(_ string, segments []string) string {
			switch firstSegment(segments) {
			case "channel", "c", "user":
				return segmentAfter(segments, firstSegment(segments))
			}
			return ""
		}},
		{hostContains: "tiktok.com", extract: func(_ string, segments []string) string {
			for _, segment := range segments {
				if strings.HasPrefix(segment, "@") {
					return strings.TrimPrefix(segment, "@")
				}
			}
			return ""
		}},
		{hostContains: "substack.com", extract: func(host string, _ []string) string {
			// The username is the publication's subdomain label.
			labels := strings.Split(host, ".")
			if len(labels) > 2 && labels[0] != "www" {
				return labels[0]
			}
			return ""
		}},
		// x.com last: substring dispatch would otherwise claim unrelated
		// hostnames containing "x.com".
		{hostContains: "x.com", extract: profileFromFirstSegment},
	}
}

// buildEmbedRules returns the per-platform embed derivation table.
// The order of the entries is the dispatch precedence.
func buildEmbedRules() []embedRule {
	twitterEmbed := func(_ *url.URL, _ string, segments []string) string {
		id := segmentAfter(segments, "status")
		if numericPattern.MatchString(id) {
			return "https://platform.twitter.com/embed/Tweet.html?id=" + id
		}
		return ""
	}

	return []embedRule{
		{hostContains: "youtu.be", derive: func(_ *url.URL, _ string, segments []string) string {
			if id := firstSegment(segments); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
			return ""
		}},
		{hostContains: "youtube.com", derive: func(u *url.URL, _ string, segments []string) string {
			if id := u.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
			if firstSegment(segments) == "embed" {
				if id := segmentAfter(segments, "embed"); id != "" {
					return "https://www.youtube.com/embed/" + id
				}
			}
			return ""
		}},
		{hostContains: "twitter.com", derive: twitterEmbed},
		{hostContains: "instagram.com", derive: func(_ *url.URL, _ string, segments []string) string {
			if id := segmentAfter(segments, "p"); id != "" {
				return "https://www.instagram.com/p/" + id + "/embed"
			}
			return ""
		}},
		{hostContains: "facebook.com", derive: func(_ *url.URL, normalized string, segments []string) string {
			// Facebook's plugin endpoints take the whole URL, not just the id,
			// so the normalized URL is passed through URL-encoded.
			if id := segmentAfter(segments, "videos"); numericPattern.MatchString(id) {
				return "https://www.facebook.com/plugins/video.php?href=" + url.QueryEscape(normalized)
			}
			if id := segmentAfter(segments, "posts"); numericPattern.MatchString(id) {
				return "https://www.facebook.com/plugins/post.php?href=" + url.QueryEscape(normalized)
			}
			return ""
		}},
		{hostContains: "vimeo.com", derive: func(_ *url.URL, _ string, segments []string) string {
			if id := firstSegment(segments); numericPattern.MatchString(id) {
				return "https://player.vimeo.com/video/" + id
			}
			return ""
		}},
		{hostContains: "soundcloud.com", derive: func(_ *url.URL, normalized string, _ []string) string {
			// SoundCloud's player resolves any track/playlist URL itself.
			return "https://w.soundcloud.com/player/?url=" + url.QueryEscape(normalized)
		}},
		{hostContains: "spotify.com", derive: func(_ *url.URL, _ string, segments []string) string {
			for _, kind := range []string{"track", "album", "playlist"} {
				if id := segmentAfter(segments, kind); alphanumericPattern.MatchString(id) {
					return "https://open.spotify.com/embed/" + kind + "/" + id
				}
			}
			return ""
		}},
		{hostContains: "x.com", derive: twitterEmbed},
	}
}
