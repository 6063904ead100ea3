// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package preview fetches page metadata for link previews.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain/models"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/pkg/constants"
)

// OGFetcher fetches a page over HTTP and extracts OpenGraph, Twitter card,
// and plain HTML metadata. It implements [domain.PreviewProvider].
type OGFetcher struct {
	// Client is the HTTP client used for fetches. Tests replace its Transport.
	Client *http.Client
}

// NewOGFetcher creates a new OGFetcher with a default HTTP client.
func NewOGFetcher() *OGFetcher {
	return &OGFetcher{
		Client: &http.Client{},
	}
}

// FetchPreview fetches the page and extracts its preview metadata.
func (f *OGFetcher) FetchPreview(ctx context.Context, normalizedURL string, opts domain.PreviewOptions) (*models.PreviewMetadata, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.PreviewFetchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constants.PreviewUserAgent
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = constants.PreviewMaxRedirects
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalizedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building preview request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := &http.Client{
		Transport: f.Client.Transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", opts.MaxRedirects)
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching preview page: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.WarnContext(ctx, "error closing preview response body", logging.ErrKey, closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("preview page returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, fmt.Errorf("preview page has unsupported content type %q", contentType)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, constants.PreviewMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing preview page: %w", err)
	}

	// Redirects may have moved us, so relative URLs resolve against the
	// final request URL.
	base := resp.Request.URL

	metadata := extractMetadata(doc, base)

	slog.DebugContext(ctx, "fetched preview metadata",
		"url", normalizedURL,
		"has_title", metadata.Title != "",
		"has_image", metadata.ImageURL != "",
	)

	return metadata, nil
}

// extractMetadata walks the parsed document collecting metadata. OpenGraph
// tags win over Twitter card tags, which win over plain HTML fallbacks.
func extractMetadata(doc *html.Node, base *url.URL) *models.PreviewMetadata {
	metadata := &models.PreviewMetadata{}
	var htmlTitle, metaDescription, twitterTitle, twitterDescription, twitterImage, favicon string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if htmlTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					htmlTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				property := attrValue(n, "property")
				name := attrValue(n, "name")
				content := strings.TrimSpace(attrValue(n, "content"))
				if content == "" {
					break
				}
				switch property {
				case "og:title":
					metadata.Title = content
				case "og:description":
					metadata.Description = content
				case "og:image":
					metadata.ImageURL = resolveURL(base, content)
				case "og:site_name":
					metadata.SiteName = content
				}
				switch name {
				case "twitter:title":
					twitterTitle = content
				case "twitter:description":
					twitterDescription = content
				case "twitter:image":
					twitterImage = resolveURL(base, content)
				case "description":
					metaDescription = content
				}
			case "link":
				rel := strings.ToLower(attrValue(n, "rel"))
				if favicon == "" && (rel == "icon" || rel == "shortcut icon" || rel == "apple-touch-icon") {
					if href := attrValue(n, "href"); href != "" {
						favicon = resolveURL(base, href)
					}
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if metadata.Title == "" {
		metadata.Title = twitterTitle
	}
	if metadata.Title == "" {
		metadata.Title = htmlTitle
	}
	if metadata.Description == "" {
		metadata.Description = twitterDescription
	}
	if metadata.Description == "" {
		metadata.Description = metaDescription
	}
	if metadata.ImageURL == "" {
		metadata.ImageURL = twitterImage
	}
	if favicon == "" && base != nil {
		favicon = base.Scheme + "://" + base.Host + "/favicon.ico"
	}
	metadata.FaviconURL = favicon

	return metadata
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// resolveURL makes a possibly-relative reference absolute against the base.
func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if parsed.IsAbs() || base == nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
