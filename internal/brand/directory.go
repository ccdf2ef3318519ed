package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"brandmock/internal/domain"
)

// maxDirectoryCandidates caps how many logo URLs are collected from a single
// directory response.
const maxDirectoryCandidates = 5

// DirectoryOptions configures the brand-logo directory client.
type DirectoryOptions struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// DirectoryClient looks up candidate logo assets for a domain in the remote
// brand directory.
type DirectoryClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewDirectoryClient(opts DirectoryOptions) *DirectoryClient {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.brandfetch.io"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &DirectoryClient{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
	}
}

type directoryResponse struct {
	Logos []struct {
		Formats []struct {
			Format string `json:"format"`
			Src    string `json:"src"`
		} `json:"formats"`
	} `json:"logos"`
}

// Lookup fetches the directory entry for a domain and collects up to five
// candidate URLs, preferring PNG over JPG per logo entry and preserving the
// service's order. A non-success status is reported as an error so the
// resolver can log it and fall through to the scrape tier.
func (c *DirectoryClient) Lookup(ctx context.Context, d domain.Domain) ([]domain.LogoCandidate, error) {
	endpoint := fmt.Sprintf("%s/v2/brands/%s", c.baseURL, d)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory: http %d for %s", resp.StatusCode, d)
	}

	var decoded directoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("directory: decode response: %w", err)
	}

	var candidates []domain.LogoCandidate
	for _, logo := range decoded.Logos {
		src, format := pickDirectoryFormat(logo.Formats)
		if src == "" {
			continue
		}
		candidates = append(candidates, domain.LogoCandidate{
			SourceURL: src,
			Format:    format,
			Origin:    domain.OriginDirectory,
		})
		if len(candidates) == maxDirectoryCandidates {
			break
		}
	}
	return candidates, nil
}

// pickDirectoryFormat prefers a PNG asset, then a JPG asset; entries offering
// neither are skipped.
func pickDirectoryFormat(formats []struct {
	Format string `json:"format"`
	Src    string `json:"src"`
}) (string, domain.LogoFormat) {
	var jpgSrc string
	for _, f := range formats {
		switch strings.ToLower(f.Format) {
		case "png":
			if f.Src != "" {
				return f.Src, domain.FormatPNG
			}
		case "jpg", "jpeg":
			if jpgSrc == "" {
				jpgSrc = f.Src
			}
		}
	}
	if jpgSrc != "" {
		return jpgSrc, domain.FormatJPG
	}
	return "", domain.FormatUnknown
}
