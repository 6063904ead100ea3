// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package models

// PlatformEntry is one row of the platform registry. The registry is an
// ordered sequence: the first entry whose domain suffix matches a hostname
// wins, so the order of the table is part of the matching contract.
type PlatformEntry struct {
	Name         string `json:"name"`
	DomainSuffix string `json:"domain_suffix"`
	IconTag      string `json:"icon_tag"`
}

// ClassificationResult is the outcome of identifying which platform a URL
// belongs to. It is always populated; URLs that match no registry entry get
// the generic website fallback.
type ClassificationResult struct {
	Platform        string `json:"platform"`
	PlatformIcon    string `json:"platform_icon"`
	IsKnownPlatform bool   `json:"is_known_platform"`
}

// Generic fallback classification values.
const (
	PlatformWebsite     = "Website"
	PlatformIconWebsite = "globe"
)

// WebsiteClassification returns the generic fallback classification used for
// unknown platforms and unparseable input.
func WebsiteClassification() ClassificationResult {
	return ClassificationResult{
		Platform:        PlatformWebsite,
		PlatformIcon:    PlatformIconWebsite,
		IsKnownPlatform: false,
	}
}

// DefaultPlatformRegistry returns the built-in platform table. Operators can
// replace or extend it through the LINK_TABLES_FILE configuration without a
// code change.
func DefaultPlatformRegistry() []PlatformEntry {
	return []PlatformEntry{
		{Name: "YouTube", DomainSuffix: "youtube.com", IconTag: "youtube"},
		{Name: "YouTube", DomainSuffix: "youtu.be", IconTag: "youtube"},
		{Name: "Twitter", DomainSuffix: "twitter.com", IconTag: "twitter"},
		{Name: "Instagram", DomainSuffix: "instagram.com", IconTag: "instagram"},
		{Name: "Facebook", DomainSuffix: "facebook.com", IconTag: "facebook"},
		{Name: "LinkedIn", DomainSuffix: "linkedin.com", IconTag: "linkedin"},
		{Name: "TikTok", DomainSuffix: "tiktok.com", IconTag: "tiktok"},
		{Name: "GitHub", DomainSuffix: "github.com", IconTag: "github"},
		{Name: "Medium", DomainSuffix: "medium.com", IconTag: "medium"},
		{Name: "Substack", DomainSuffix: "substack.com", IconTag: "substack"},
		{Name: "Vimeo", DomainSuffix: "vimeo.com", IconTag: "vimeo"},
		{Name: "SoundCloud", DomainSuffix: "soundcloud.com", IconTag: "soundcloud"},
		{Name: "Spotify", DomainSuffix: "spotify.com", IconTag: "spotify"},
		{Name: "Reddit", DomainSuffix: "reddit.com", IconTag: "reddit"},
		{Name: "Twitch", DomainSuffix: "twitch.tv", IconTag: "twitch"},
		// x.com stays last: substring matching would otherwise claim any
		// hostname that happens to contain "x.com" (e.g. xbox.com).
		{Name: "Twitter", DomainSuffix: "x.com", IconTag: "twitter"},
	}
}

// DefaultShortenerDomains returns the built-in set of URL shortener domains.
// Shorteners are rejected because they obscure the destination from the
// screening heuristics.
func DefaultShortenerDomains() []string {
	return []string{
		"bit.ly",
		"tinyurl.com",
		"goo.gl",
		"t.co",
		"ow.ly",
		"is.gd",
		"buff.ly",
		"adf.ly",
		"cutt.ly",
		"rebrand.ly",
		"tiny.cc",
		"rb.gy",
		"shorturl.at",
		"soo.gd",
	}
}

// DefaultSuspiciousTLDs returns the built-in set of low-trust top-level
// domain labels. These are kept separate from the shortener table so the two
// rule sets can diverge later, even though both currently feed the same
// boolean screening outcome.
func DefaultSuspiciousTLDs() []string {
	return []string{
		"xyz",
		"top",
		"club",
		"work",
		"click",
		"buzz",
		"icu",
		"tk",
		"ml",
		"ga",
		"cf",
		"gq",
	}
}
