package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"brandmock/internal/domain"
)

// Options configures the template-rendering service client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Limiter    *rate.Limiter
}

// Client submits composite requests to the remote template-rendering
// service: (template id, placeholder id, image URL) -> rendered image URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.renderforest.com"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	limiter := opts.Limiter
	if limiter == nil {
		// One render per second with a small burst keeps a five-product run
		// under the remote service's default quota.
		limiter = rate.NewLimiter(rate.Every(time.Second), 3)
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		limiter:    limiter,
	}
}

type renderRequest struct {
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

type renderResponse struct {
	Href    string `json:"href"`
	Message string `json:"message,omitempty"`
}

// Render composites the image at imageURL into the named template slot and
// returns the URL of the rendered result. Non-success responses wrap
// ErrRenderFailed so the pipeline can isolate the failure to one product.
func (c *Client) Render(ctx context.Context, templateID, placeholderID, imageURL string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("render: API key is missing")
	}
	if strings.TrimSpace(imageURL) == "" {
		return "", errors.New("render: image url required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := renderRequest{
		Template: templateID,
		Data:     map[string]string{placeholderID + ".src": imageURL},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/api/v2/render"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	defer resp.Body.Close()

	var out renderResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("%w: http %d", domain.ErrRenderFailed, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, decodeErr)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Message != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrRenderFailed, out.Message)
		}
		return "", fmt.Errorf("%w: http %d", domain.ErrRenderFailed, resp.StatusCode)
	}
	if strings.TrimSpace(out.Href) == "" {
		return "", fmt.Errorf("%w: response missing href", domain.ErrRenderFailed)
	}
	return out.Href, nil
}
