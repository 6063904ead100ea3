// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
)

func newTestClassifier() *URLClassifier {
	return NewURLClassifier(ClassifierConfig{})
}

func TestURLClassifier_Normalize(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare domain gets https scheme",
			input:    "example.com",
			expected: "https://example.com",
		},
		{
			name:     "existing http scheme is preserved",
			input:    "http://example.com",
			expected: "http://example.com",
		},
		{
			name:     "existing https scheme is preserved",
			input:    "https://example.com/path",
			expected: "https://example.com/path",
		},
		{
			name:     "scheme check is case-insensitive",
			input:    "HTTPS://example.com",
			expected: "HTTPS://example.com",
		},
		{
			name:     "whitespace is trimmed",
			input:    "  example.com  ",
			expected: "https://example.com",
		},
		{
			name:     "empty input yields empty output",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace-only input yields empty output",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Normalize(tt.input))
		})
	}
}

func TestURLClassifier_Normalize_Idempotent(t *testing.T) {
	classifier := newTestClassifier()

	inputs := []string{"example.com", "http://example.com", "https://a.b.com/path?q=1", ""}
	for _, input := range inputs {
		once := classifier.Normalize(input)
		assert.Equal(t, once, classifier.Normalize(once), "normalize must be idempotent for %q", input)
	}
}

func TestURLClassifier_IsValidURL(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "plain https URL",
			input:    "https://example.com",
			expected: true,
		},
		{
			name:     "bare domain is normalized before validation",
			input:    "example.com",
			expected: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: false,
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: false,
		},
		{
			name:     "shorter than three trimmed characters",
			input:    " ab ",
			expected: false,
		},
		{
			name:     "hostname without a dot",
			input:    "https://localhost",
			expected: false,
		},
		{
			name:     "hostname shorter than three characters",
			input:    "https://ab",
			expected: false,
		},
		{
			name:     "unparseable input",
			input:    "https://exa mple.com",
			expected: false,
		},
		{
			name:     "ftp scheme embedded in input",
			input:    "ftp://example.com",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.IsValidURL(tt.input))
		})
	}
}

func TestURLClassifier_IsPotentiallyMalicious(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "regular domain is not malicious",
			input:    "https://example.com",
			expected: false,
		},
		{
			name:     "known shortener",
			input:    "https://bit.ly/abc",
			expected: true,
		},
		{
			name:     "subdomain of a blocked domain",
			input:    "https://evil.bit.ly/abc",
			expected: true,
		},
		{
			name:     "suspicious TLD",
			input:    "https://free-money.xyz",
			expected: true,
		},
		{
			name:     "IP-literal host",
			input:    "https://192.168.1.1/path",
			expected: true,
		},
		{
			name:     "out-of-range dotted quad is still treated as an IP literal",
			input:    "https://999.999.999.999",
			expected: true,
		},
		{
			name:     "hostname longer than fifty characters",
			input:    "https://" + "a-very-long-subdomain-label-used-for-homograph-attacks" + ".com",
			expected: true,
		},
		{
			name:     "four labels are allowed",
			input:    "https://a.b.c.com",
			expected: false,
		},
		{
			name:     "excessive subdomain depth",
			input:    "https://a.b.c.d.e.com",
			expected: true,
		},
		{
			name:     "unparseable input fails toward unsafe",
			input:    "https://exa mple.com",
			expected: true,
		},
		{
			name:     "empty input fails toward unsafe",
			input:    "",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.IsPotentiallyMalicious(tt.input))
		})
	}
}

func TestURLClassifier_IsPotentiallyMalicious_InjectedTables(t *testing.T) {
	classifier := NewURLClassifier(ClassifierConfig{
		Platforms:        models.DefaultPlatformRegistry(),
		ShortenerDomains: []string{"short.example"},
		SuspiciousTLDs:   []string{"bad"},
	})

	assert.True(t, classifier.IsPotentiallyMalicious("https://short.example/x"))
	assert.True(t, classifier.IsPotentiallyMalicious("https://sub.short.example/x"))
	assert.True(t, classifier.IsPotentiallyMalicious("https://anything.bad"))
	// The default tables are not in effect when custom ones are injected.
	assert.False(t, classifier.IsPotentiallyMalicious("https://bit.ly/abc"))
}

func TestURLClassifier_IdentifyPlatform(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name            string
		input           string
		expectedName    string
		expectedIcon    string
		expectedIsKnown bool
	}{
		{
			name:            "youtube watch URL",
			input:           "https://www.youtube.com/watch?v=abc",
			expectedName:    "YouTube",
			expectedIcon:    "youtube",
			expectedIsKnown: true,
		},
		{
			name:            "youtu.be short URL",
			input:           "https://youtu.be/abc",
			expectedName:    "YouTube",
			expectedIcon:    "youtube",
			expectedIsKnown: true,
		},
		{
			name:            "x.com maps to Twitter",
			input:           "https://x.com/someone",
			expectedName:    "Twitter",
			expectedIcon:    "twitter",
			expectedIsKnown: true,
		},
		{
			name:            "github profile",
			input:           "https://github.com/octocat",
			expectedName:    "GitHub",
			expectedIcon:    "github",
			expectedIsKnown: true,
		},
		{
			name:            "unknown domain falls back to Website",
			input:           "https://example.com",
			expectedName:    models.PlatformWebsite,
			expectedIcon:    models.PlatformIconWebsite,
			expectedIsKnown: false,
		},
		{
			name:            "unparseable input falls back to Website",
			input:           "https://exa mple.com",
			expectedName:    models.PlatformWebsite,
			expectedIcon:    models.PlatformIconWebsite,
			expectedIsKnown: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.IdentifyPlatform(tt.input)

			assert.Equal(t, tt.expectedName, result.Platform)
			assert.Equal(t, tt.expectedIcon, result.PlatformIcon)
			assert.Equal(t, tt.expectedIsKnown, result.IsKnownPlatform)
		})
	}
}

func TestURLClassifier_IdentifyPlatform_RegistryOrder(t *testing.T) {
	// Registry order is the tie-break contract: the first matching entry
	// wins even when a later entry would also match.
	classifier := NewURLClassifier(ClassifierConfig{
		Platforms: []models.PlatformEntry{
			{Name: "First", DomainSuffix: "example.com", IconTag: "first"},
			{Name: "Second", DomainSuffix: "example.com", IconTag: "second"},
		},
	})

	result := classifier.IdentifyPlatform("https://example.com")
	assert.Equal(t, "First", result.Platform)
	assert.Equal(t, "first", result.PlatformIcon)
	assert.True(t, result.IsKnownPlatform)
}

func TestURLClassifier_ExtractUsername(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "github profile",
			input:    "https://github.com/octocat",
			expected: "octocat",
		},
		{
			name:     "twitter profile",
			input:    "https://twitter.com/someone/status/123",
			expected: "someone",
		},
		{
			name:     "x.com profile",
			input:    "https://x.com/someone",
			expected: "someone",
		},
		{
			name:     "instagram profile",
			input:    "https://www.instagram.com/someone",
			expected: "someone",
		},
		{
			name:     "linkedin profile",
			input:    "https://www.linkedin.com/in/some-person",
			expected: "some-person",
		},
		{
			name:     "linkedin company page has no username",
			input:    "https://www.linkedin.com/company/acme",
			expected: "",
		},
		{
			name:     "youtube channel",
			input:    "https://www.youtube.com/channel/UCabc123",
			expected: "UCabc123",
		},
		{
			name:     "youtube legacy user path",
			input:    "https://www.youtube.com/user/someone",
			expected: "someone",
		},
		{
			name:     "youtube watch URL has no username",
			input:    "https://www.youtube.com/watch?v=abc",
			expected: "",
		},
		{
			name:     "tiktok handle",
			input:    "https://www.tiktok.com/@someone/video/123",
			expected: "someone",
		},
		{
			name:     "substack publication subdomain",
			input:    "https://someone.substack.com/p/a-post",
			expected: "someone",
		},
		{
			name:     "substack apex domain has no username",
			input:    "https://substack.com/home",
			expected: "",
		},
		{
			name:     "unknown platform",
			input:    "https://example.com/someone",
			expected: "",
		},
		{
			name:     "invalid URL",
			input:    "not a url",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.ExtractUsername(tt.input))
		})
	}
}

func TestURLClassifier_EmbedURL(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "youtu.be short URL",
			input:    "https://youtu.be/dQw4w9WgXcQ",
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "youtube watch URL",
			input:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "youtube embed URL passes through",
			input:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "youtube URL without video id",
			input:    "https://www.youtube.com/feed/subscriptions",
			expected: "",
		},
		{
			name:     "tweet",
			input:    "https://twitter.com/someone/status/1234567890",
			expected: "https://platform.twitter.com/embed/Tweet.html?id=1234567890",
		},
		{
			name:     "x.com tweet",
			input:    "https://x.com/someone/status/1234567890",
			expected: "https://platform.twitter.com/embed/Tweet.html?id=1234567890",
		},
		{
			name:     "tweet with non-numeric id",
			input:    "https://twitter.com/someone/status/abc",
			expected: "",
		},
		{
			name:     "instagram post",
			input:    "https://www.instagram.com/p/Cabc123",
			expected: "https://www.instagram.com/p/Cabc123/embed",
		},
		{
			name:     "facebook video carries the whole URL",
			input:    "https://www.facebook.com/someone/videos/123456",
			expected: "https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fsomeone%2Fvideos%2F123456",
		},
		{
			name:     "facebook post carries the whole URL",
			input:    "https://www.facebook.com/someone/posts/123456",
			expected: "https://www.facebook.com/plugins/post.php?href=https%3A%2F%2Fwww.facebook.com%2Fsomeone%2Fposts%2F123456",
		},
		{
			name:     "vimeo video",
			input:    "https://vimeo.com/123456789",
			expected: "https://player.vimeo.com/video/123456789",
		},
		{
			name:     "vimeo non-numeric path",
			input:    "https://vimeo.com/channels/staffpicks",
			expected: "",
		},
		{
			name:     "soundcloud track carries the whole URL",
			input:    "https://soundcloud.com/artist/track",
			expected: "https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fartist%2Ftrack",
		},
		{
			name:     "spotify track",
			input:    "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			expected: "https://open.spotify.com/embed/track/4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:     "spotify playlist",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			expected: "https://open.spotify.com/embed/playlist/37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:     "unknown platform",
			input:    "https://example.com",
			expected: "",
		},
		{
			name:     "invalid URL",
			input:    "x",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.EmbedURL(tt.input))
		})
	}
}

func TestURLClassifier_SanitizeURL(t *testing.T) {
	classifier := newTestClassifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean URL passes through",
			input:    "https://example.com/a",
			expected: "https://example.com/a",
		},
		{
			name:     "fragment is stripped",
			input:    "https://example.com/a#frag",
			expected: "https://example.com/a",
		},
		{
			name:     "query parameters survive",
			input:    "https://example.com/a?q=1#frag",
			expected: "https://example.com/a?q=1",
		},
		{
			name:     "bare domain is normalized",
			input:    "example.com",
			expected: "https://example.com",
		},
		{
			name:     "javascript scheme is rejected",
			input:    "javascript:alert(1)",
			expected: "",
		},
		{
			name:     "data scheme is rejected",
			input:    "data:text/html,<script>alert(1)</script>",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "blocked shortener is rejected",
			input:    "https://bit.ly/abc",
			expected: "",
		},
		{
			name:     "IP-literal host is rejected",
			input:    "https://10.0.0.1/admin",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.SanitizeURL(tt.input))
		})
	}
}

func TestURLClassifier_SanitizeURL_Idempotent(t *testing.T) {
	classifier := newTestClassifier()

	inputs := []string{
		"https://example.com/a#frag",
		"example.com",
		"https://www.youtube.com/watch?v=abc#t=1",
	}
	for _, input := range inputs {
		once := classifier.SanitizeURL(input)
		assert.NotEmpty(t, once)
		assert.Equal(t, once, classifier.SanitizeURL(once), "sanitize must be idempotent for %q", input)
	}
}
