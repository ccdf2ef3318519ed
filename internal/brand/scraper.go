package brand

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
)

// allowedLogoExtensions are the filename extensions accepted from scraped
// pages, mapped to the candidate format they imply.
var allowedLogoExtensions = map[string]domain.LogoFormat{
	".svg":  domain.FormatSVG,
	".png":  domain.FormatPNG,
	".jpg":  domain.FormatJPG,
	".jpeg": domain.FormatJPG,
}

// scrapeTarget is a URL discovered on a page, tagged with the heuristic pass
// that found it.
type scrapeTarget struct {
	url    string
	origin domain.CandidateOrigin
}

// ScraperOptions configures the page-scrape fallback tier.
type ScraperOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Scraper implements the tier-2 logo acquisition: fetch the domain's root
// page, pick out logo-looking <img> and <link rel=icon> targets, and keep
// only URLs that validate as images.
type Scraper struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewScraper(opts ScraperOptions) *Scraper {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 8 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Scraper{httpClient: client, logger: logger}
}

// Scrape fetches https://<domain> and extracts logo candidates. Network
// failure yields an empty result, never an error: the caller reports
// "no logo found" when every tier comes back empty.
func (s *Scraper) Scrape(ctx context.Context, d domain.Domain) []domain.LogoCandidate {
	return s.ScrapePage(ctx, "https://"+string(d))
}

// ScrapePage runs the scrape against an explicit page URL.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) []domain.LogoCandidate {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("scrape: page fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn().Int("status", resp.StatusCode).Str("url", pageURL).Msg("scrape: page fetch failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("scrape: parse failed")
		return nil
	}

	base := resp.Request.URL

	targets := dedupeTargets(append(collectAttrTargets(doc, base), collectIconTargets(doc, base)...))

	var validated []scrapeTarget
	for _, tgt := range targets {
		if s.validateImageURL(ctx, tgt.url) {
			validated = append(validated, tgt)
		}
	}

	if named := filterNamedLogos(validated); len(named) > 0 {
		return toCandidates(named)
	}

	// Nothing on the page is explicitly named like a logo; settle for the
	// first validated image-typed target with an allowed extension.
	for _, tgt := range dedupeTargets(collectGenericTargets(doc, base)) {
		if _, ok := extensionOf(tgt.url); !ok {
			continue
		}
		if s.validateImageURL(ctx, tgt.url) {
			return toCandidates([]scrapeTarget{tgt})
		}
	}
	return nil
}

// collectAttrTargets is pass (a): every <img> whose src, alt, or class
// attribute contains "logo", resolved to an absolute URL.
func collectAttrTargets(doc *goquery.Document, base *url.URL) []scrapeTarget {
	var out []scrapeTarget
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		alt, _ := sel.Attr("alt")
		class, _ := sel.Attr("class")
		if src == "" {
			return
		}
		if containsLogo(src) || containsLogo(alt) || containsLogo(class) {
			if abs := resolveURL(base, src); abs != "" {
				out = append(out, scrapeTarget{url: abs, origin: domain.OriginScrapeAttr})
			}
		}
	})
	return out
}

// collectIconTargets is pass (b): every <link rel~=icon> whose href contains
// "logo".
func collectIconTargets(doc *goquery.Document, base *url.URL) []scrapeTarget {
	var out []scrapeTarget
	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		href, _ := sel.Attr("href")
		if href == "" || !relContainsIcon(rel) {
			return
		}
		if containsLogo(href) {
			if abs := resolveURL(base, href); abs != "" {
				out = append(out, scrapeTarget{url: abs, origin: domain.OriginScrapeIcon})
			}
		}
	})
	return out
}

// collectGenericTargets gathers every <img> src and icon-link href on the
// page, logo-named or not, for the last-resort fallback.
func collectGenericTargets(doc *goquery.Document, base *url.URL) []scrapeTarget {
	var out []scrapeTarget
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, _ := sel.Attr("src"); src != "" {
			if abs := resolveURL(base, src); abs != "" {
				out = append(out, scrapeTarget{url: abs, origin: domain.OriginScrapeGeneric})
			}
		}
	})
	doc.Find("link").Each(func(_ int, sel *goquery.Selection) {
		rel, _ := sel.Attr("rel")
		href, _ := sel.Attr("href")
		if href == "" || !relContainsIcon(rel) {
			return
		}
		if abs := resolveURL(base, href); abs != "" {
			out = append(out, scrapeTarget{url: abs, origin: domain.OriginScrapeGeneric})
		}
	})
	return out
}

// filterNamedLogos keeps targets whose final path segment has an allowed
// extension and contains "logo".
func filterNamedLogos(targets []scrapeTarget) []scrapeTarget {
	var out []scrapeTarget
	for _, tgt := range targets {
		name := filenameOf(tgt.url)
		if _, ok := extensionOf(tgt.url); ok && containsLogo(name) {
			out = append(out, tgt)
		}
	}
	return out
}

// validateImageURL issues a metadata-only request and accepts the URL when
// the response succeeds with an image/* content type.
func (s *Scraper) validateImageURL(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}

func toCandidates(targets []scrapeTarget) []domain.LogoCandidate {
	out := make([]domain.LogoCandidate, 0, len(targets))
	for _, tgt := range targets {
		format := domain.FormatUnknown
		if f, ok := extensionOf(tgt.url); ok {
			format = f
		}
		out = append(out, domain.LogoCandidate{
			SourceURL: tgt.url,
			Format:    format,
			Origin:    tgt.origin,
		})
	}
	return out
}

func dedupeTargets(targets []scrapeTarget) []scrapeTarget {
	seen := make(map[string]struct{}, len(targets))
	out := targets[:0:0]
	for _, tgt := range targets {
		if _, ok := seen[tgt.url]; ok {
			continue
		}
		seen[tgt.url] = struct{}{}
		out = append(out, tgt)
	}
	return out
}

func containsLogo(s string) bool {
	return strings.Contains(strings.ToLower(s), "logo")
}

func relContainsIcon(rel string) bool {
	for _, word := range strings.Fields(strings.ToLower(rel)) {
		if word == "icon" || strings.HasSuffix(word, "-icon") {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// filenameOf returns the final path segment of a URL with any query string
// stripped.
func filenameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(parsed.Path)
}

// extensionOf maps a URL's filename extension onto a logo format, reporting
// whether the extension is one the pipeline accepts.
func extensionOf(rawURL string) (domain.LogoFormat, bool) {
	ext := strings.ToLower(path.Ext(filenameOf(rawURL)))
	format, ok := allowedLogoExtensions[ext]
	return format, ok
}
