package logo

import (
	"context"
	"image"
	"image/color"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
)

// DefaultBrightnessThreshold is the mean channel value above which a logo is
// classified LIGHT. The classification policy here is the arithmetic mean of
// the R, G, and B channel means; see DESIGN.md for the rationale.
const DefaultBrightnessThreshold = 30

// ClassifierOptions configures a brightness Classifier.
type ClassifierOptions struct {
	HTTPClient *http.Client
	Threshold  int
	Timeout    time.Duration
	Logger     *infra.Logger
}

// Classifier decides whether a logo needs a light- or dark-background
// product template.
type Classifier struct {
	httpClient *http.Client
	threshold  float64
	logger     zerolog.Logger
}

func NewClassifier(opts ClassifierOptions) *Classifier {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	// Non-positive selects the default; LoadConfig only admits [1,255], so
	// a configured threshold is never coerced away.
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultBrightnessThreshold
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Classifier{httpClient: client, threshold: float64(threshold), logger: logger}
}

// Classify downloads the candidate image and returns LIGHT when its mean
// brightness exceeds the threshold. SVG candidates are not rasterized; they
// classify DARK unconditionally. Every failure also classifies DARK so a bad
// candidate never aborts a product's mockup.
func (c *Classifier) Classify(ctx context.Context, candidateURL string) domain.BrightnessClass {
	if IsSVGURL(candidateURL) {
		return domain.BrightnessDark
	}

	img, err := FetchImage(ctx, c.httpClient, candidateURL)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", candidateURL).Msg("classify: falling back to dark")
		return domain.BrightnessDark
	}

	if MeanBrightness(img) > c.threshold {
		return domain.BrightnessLight
	}
	return domain.BrightnessDark
}

// MeanBrightness averages the per-channel means of R, G, and B across all
// visible pixels, yielding a scalar in [0,255]. Channels are sampled
// un-premultiplied and fully transparent pixels are excluded, so a
// transparent background does not drag a pale logo toward DARK. Fully
// transparent images score 0. Deterministic for a fixed image.
func MeanBrightness(img image.Image) float64 {
	bounds := img.Bounds()

	var sumR, sumG, sumB, visible uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.A == 0 {
				continue
			}
			sumR += uint64(px.R)
			sumG += uint64(px.G)
			sumB += uint64(px.B)
			visible++
		}
	}
	if visible == 0 {
		return 0
	}

	n := float64(visible)
	return (float64(sumR)/n + float64(sumG)/n + float64(sumB)/n) / 3
}

// IsSVGURL reports whether the URL path carries a .svg extension.
func IsSVGURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".svg")
	}
	return strings.EqualFold(path.Ext(parsed.Path), ".svg")
}
