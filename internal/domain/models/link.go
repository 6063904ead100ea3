// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package models contains the domain models for the link service.
package models

import "time"

// Link is a user-submitted URL that passed validation and safety screening.
// The URL field is always the sanitized form: explicit http(s) scheme, no
// fragment, and not on any blocked-domain table at the time of submission.
type Link struct {
	UID             string    `json:"uid"`
	URL             string    `json:"url"`
	OriginalURL     string    `json:"original_url"`
	SubmitterUID    string    `json:"submitter_uid"`
	Platform        string    `json:"platform"`
	PlatformIcon    string    `json:"platform_icon"`
	IsKnownPlatform bool      `json:"is_known_platform"`
	EmbedURL        string    `json:"embed_url,omitempty"`
	Username        string    `json:"username,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Tags generates a set of tags for indexing the link.
func (l *Link) Tags() []string {
	tags := []string{}

	if l.UID != "" {
		tags = append(tags, l.UID)
	}
	if l.SubmitterUID != "" {
		tags = append(tags, l.SubmitterUID)
	}
	if l.Platform != "" {
		tags = append(tags, l.Platform)
	}

	return tags
}

// CreateLinkRequest is the payload for submitting a new link.
type CreateLinkRequest struct {
	URL          string `json:"url"`
	SubmitterUID string `json:"submitter_uid,omitempty"`
}

// PreviewResult is the merged outcome of a preview fetch and the URL
// classification. On fetch failure the metadata fields stay empty, Title
// falls back to the original URL, and Error carries the failure reason.
type PreviewResult struct {
	URL             string `json:"url"`
	OriginalURL     string `json:"original_url"`
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	SiteName        string `json:"site_name,omitempty"`
	FaviconURL      string `json:"favicon_url,omitempty"`
	Platform        string `json:"platform"`
	PlatformIcon    string `json:"platform_icon"`
	IsKnownPlatform bool   `json:"is_known_platform"`
	EmbedURL        string `json:"embed_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

// PreviewMetadata is the raw metadata a preview fetch provider extracts from
// a target page before the classifier's fields are merged in.
type PreviewMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	FaviconURL  string `json:"favicon_url,omitempty"`
}
