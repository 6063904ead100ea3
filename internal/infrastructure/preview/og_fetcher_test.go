// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/domain"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOGFetcher_FetchPreview(t *testing.T) {
	t.Run("extracts open graph tags", func(t *testing.T) {
		server := servePage(t, `<html><head>
			<title>Plain Title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG Description">
			<meta property="og:image" content="https://cdn.example.com/img.png">
			<meta property="og:site_name" content="Example">
		</head><body></body></html>`)

		fetcher := NewOGFetcher()
		metadata, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.NoError(t, err)
		assert.Equal(t, "OG Title", metadata.Title)
		assert.Equal(t, "OG Description", metadata.Description)
		assert.Equal(t, "https://cdn.example.com/img.png", metadata.ImageURL)
		assert.Equal(t, "Example", metadata.SiteName)
	})

	t.Run("falls back to twitter card then html title", func(t *testing.T) {
		server := servePage(t, `<html><head>
			<title>Plain Title</title>
			<meta name="twitter:description" content="Twitter Description">
			<meta name="description" content="Meta Description">
		</head><body></body></html>`)

		fetcher := NewOGFetcher()
		metadata, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.NoError(t, err)
		assert.Equal(t, "Plain Title", metadata.Title)
		assert.Equal(t, "Twitter Description", metadata.Description)
	})

	t.Run("resolves relative image and favicon URLs", func(t *testing.T) {
		server := servePage(t, `<html><head>
			<meta property="og:image" content="/static/img.png">
			<link rel="icon" href="/static/favicon.png">
		</head><body></body></html>`)

		fetcher := NewOGFetcher()
		metadata, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/static/img.png", metadata.ImageURL)
		assert.Equal(t, server.URL+"/static/favicon.png", metadata.FaviconURL)
	})

	t.Run("default favicon when page declares none", func(t *testing.T) {
		server := servePage(t, `<html><head><title>T</title></head><body></body></html>`)

		fetcher := NewOGFetcher()
		metadata, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.NoError(t, err)
		assert.Equal(t, server.URL+"/favicon.ico", metadata.FaviconURL)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><head><title>T</title></head></html>")
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		_, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{
			UserAgent: "test-agent/1.0",
		})

		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", gotUA)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		_, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("non-html content type is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, "%PDF-1.4")
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		_, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported content type")
	})

	t.Run("redirect limit is enforced", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		_, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{
			MaxRedirects: 2,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "redirects")
	})

	t.Run("follows redirects under the limit", func(t *testing.T) {
		target := servePage(t, `<html><head><meta property="og:title" content="Landed"></head></html>`)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, target.URL, http.StatusFound)
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		metadata, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{})

		require.NoError(t, err)
		assert.Equal(t, "Landed", metadata.Title)
	})

	t.Run("timeout is honored", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		t.Cleanup(server.Close)

		fetcher := NewOGFetcher()
		_, err := fetcher.FetchPreview(context.Background(), server.URL, domain.PreviewOptions{
			Timeout: 50 * time.Millisecond,
		})

		require.Error(t, err)
	})
}
