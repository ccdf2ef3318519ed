package brand

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brandmock/internal/domain"
)

// scrapeSite serves an HTML landing page plus HEAD metadata for the image
// URLs it references.
func scrapeSite(t *testing.T, html string, contentTypes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, html)
			return
		}
		ct, ok := contentTypes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", ct)
	}))
}

func TestScrapePageFindsNamedLogos(t *testing.T) {
	html := `<html><head>
		<link rel="icon" href="/favicon.ico">
		<link rel="shortcut icon" href="/assets/logo-icon.png">
	</head><body>
		<img src="/assets/logo-dark.png" alt="Example logo">
		<img src="/assets/logo-dark.png" alt="duplicate">
		<img src="/img/hero.jpg" class="hero">
		<img class="site-logo" src="/assets/brand.svg">
	</body></html>`
	ts := scrapeSite(t, html, map[string]string{
		"/assets/logo-dark.png": "image/png",
		"/assets/logo-icon.png": "image/png",
		"/assets/brand.svg":     "image/svg+xml",
		"/img/hero.jpg":         "image/jpeg",
	})
	defer ts.Close()

	s := NewScraper(ScraperOptions{})
	got := s.ScrapePage(context.Background(), ts.URL)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if !strings.HasSuffix(got[0].SourceURL, "/assets/logo-dark.png") {
		t.Fatalf("first candidate mismatch: %+v", got[0])
	}
	if got[0].Origin != domain.OriginScrapeAttr || got[0].Format != domain.FormatPNG {
		t.Fatalf("first candidate tags mismatch: %+v", got[0])
	}
	if !strings.HasSuffix(got[1].SourceURL, "/assets/logo-icon.png") || got[1].Origin != domain.OriginScrapeIcon {
		t.Fatalf("second candidate mismatch: %+v", got[1])
	}
}

func TestScrapePageAcceptsAltAttributeMatch(t *testing.T) {
	// Scenario from a directory miss: the page offers a single image whose
	// alt text names the logo.
	html := `<html><body><img src="/assets/logo-dark.png" alt="Example logo"></body></html>`
	ts := scrapeSite(t, html, map[string]string{"/assets/logo-dark.png": "image/png"})
	defer ts.Close()

	s := NewScraper(ScraperOptions{})
	got := s.ScrapePage(context.Background(), ts.URL)
	if len(got) != 1 {
		t.Fatalf("expected sole candidate, got %d", len(got))
	}
	if got[0].Format != domain.FormatPNG {
		t.Fatalf("format mismatch: %+v", got[0])
	}
}

func TestScrapePageGenericFallback(t *testing.T) {
	html := `<html><body>
		<img src="/img/banner.gif">
		<img src="/img/hero.jpg">
		<img src="/img/second.png">
	</body></html>`
	ts := scrapeSite(t, html, map[string]string{
		"/img/hero.jpg":   "image/jpeg",
		"/img/second.png": "image/png",
	})
	defer ts.Close()

	s := NewScraper(ScraperOptions{})
	got := s.ScrapePage(context.Background(), ts.URL)
	if len(got) != 1 {
		t.Fatalf("expected 1 fallback candidate, got %d", len(got))
	}
	if !strings.HasSuffix(got[0].SourceURL, "/img/hero.jpg") {
		t.Fatalf("expected first validated target, got %+v", got[0])
	}
	if got[0].Origin != domain.OriginScrapeGeneric {
		t.Fatalf("origin mismatch: %+v", got[0])
	}
}

func TestScrapePageRejectsNonImageContentType(t *testing.T) {
	html := `<html><body><img src="/logo.png" alt="logo"></body></html>`
	ts := scrapeSite(t, html, map[string]string{"/logo.png": "text/html"})
	defer ts.Close()

	s := NewScraper(ScraperOptions{})
	if got := s.ScrapePage(context.Background(), ts.URL); len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

func TestScrapePageNetworkFailureIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	s := NewScraper(ScraperOptions{})
	if got := s.ScrapePage(context.Background(), ts.URL); got != nil {
		t.Fatalf("expected nil on network failure, got %+v", got)
	}
}
