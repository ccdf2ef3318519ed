package brand

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
)

// browserUserAgent is sent on search and scrape requests so consumer sites
// serve the same markup they serve a desktop browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// domainPattern is the strict domain grammar: one or more labels followed by
// an alphabetic TLD. No scheme, path, port, or embedded slash/colon.
var domainPattern = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// siteURLPattern extracts the first http(s) host from a search result body.
var siteURLPattern = regexp.MustCompile(`https?://(?:www\.)?([a-z0-9][a-z0-9.-]*\.[a-z]{2,})`)

// IsValidDomain reports whether s already satisfies the strict domain
// grammar. Strings carrying a scheme, path, or port are rejected before any
// resolution is attempted.
func IsValidDomain(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || strings.ContainsAny(s, "/:") {
		return false
	}
	return domainPattern.MatchString(s)
}

// NormalizerOptions configures a Normalizer.
type NormalizerOptions struct {
	SearchBaseURL string
	HTTPClient    *http.Client
	Timeout       time.Duration
	Logger        *infra.Logger
}

// Normalizer turns free-form brand input (company name or domain) into a
// validated Domain, falling back to a web-search lookup for names.
type Normalizer struct {
	searchBaseURL string
	httpClient    *http.Client
	logger        zerolog.Logger
}

func NewNormalizer(opts NormalizerOptions) *Normalizer {
	base := strings.TrimRight(opts.SearchBaseURL, "/")
	if base == "" {
		base = "https://duckduckgo.com/html"
	}
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
	return &Normalizer{searchBaseURL: base, httpClient: client, logger: logger}
}

// Normalize validates input against the domain grammar, or resolves it as a
// company name via the search surface. Terminal failure is ErrInvalidDomain.
func (n *Normalizer) Normalize(ctx context.Context, input string) (domain.Domain, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return "", fmt.Errorf("empty brand input: %w", domain.ErrInvalidDomain)
	}
	if IsValidDomain(trimmed) {
		return domain.Domain(trimmed), nil
	}

	resolved, err := n.searchDomain(ctx, strings.TrimSpace(input))
	if err != nil {
		n.logger.Warn().Err(err).Str("input", input).Msg("brand: search resolution failed")
		return "", fmt.Errorf("resolve %q: %w", input, domain.ErrInvalidDomain)
	}
	return resolved, nil
}

// searchDomain queries the search surface with "<name> official site" and
// scans the response body for the first validating domain.
func (n *Normalizer) searchDomain(ctx context.Context, name string) (domain.Domain, error) {
	query := url.Values{"q": {name + " official site"}}
	endpoint := n.searchBaseURL + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("search: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	for _, match := range siteURLPattern.FindAllStringSubmatch(strings.ToLower(string(body)), -1) {
		if candidate := match[1]; IsValidDomain(candidate) {
			return domain.Domain(candidate), nil
		}
	}
	return "", fmt.Errorf("no domain found in search results")
}
