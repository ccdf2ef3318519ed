package mockup

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
	"brandmock/internal/logo"
)

// enhanceInstruction is the fixed prompt sent with every enhancement call.
const enhanceInstruction = "Add realistic texture and lighting. Do not crop or reframe the image. Blend the logo into the product surface so it looks printed on."

// productState tracks where a product sits in its mockup lifecycle; used for
// structured logging only.
type productState string

const (
	statePending        productState = "PENDING"
	stateRendering      productState = "RENDERING"
	stateRendered       productState = "RENDERED"
	stateRenderFailed   productState = "RENDER_FAILED"
	stateEnhancing      productState = "ENHANCING"
	stateEnhanced       productState = "ENHANCED"
	stateEnhanceSkipped productState = "ENHANCE_SKIPPED"
	stateDone           productState = "DONE"
)

// Renderer composites a logo URL into a template slot and returns the URL of
// the rendered image.
type Renderer interface {
	Render(ctx context.Context, templateID, placeholderID, imageURL string) (string, error)
}

// Classifier decides the brightness class for a candidate logo URL.
type Classifier interface {
	Classify(ctx context.Context, candidateURL string) domain.BrightnessClass
}

// Enhancer optionally improves a rendered mockup. ok=false means the model
// produced no image and the input should be kept unchanged.
type Enhancer interface {
	EnhanceImage(ctx context.Context, instruction string, imagePNG []byte) ([]byte, bool, error)
}

// PipelineOptions wires the pipeline's collaborators.
type PipelineOptions struct {
	Catalog     *Catalog
	Renderer    Renderer
	Classifier  Classifier
	Enhancer    Enhancer
	HTTPClient  *http.Client
	Rand        *rand.Rand
	Concurrency int
	Logger      *infra.Logger
}

// Pipeline produces one mockup per product: pick a logo candidate, classify
// it, select the matching template, render, and optionally enhance. A failed
// product is dropped with a warning; it never aborts the run.
type Pipeline struct {
	catalog     *Catalog
	renderer    Renderer
	classifier  Classifier
	enhancer    Enhancer
	httpClient  *http.Client
	rng         *rand.Rand
	rngMu       sync.Mutex
	concurrency int
	logger      zerolog.Logger
}

func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("pipeline: renderer is required")
	}
	if opts.Classifier == nil {
		return nil, fmt.Errorf("pipeline: classifier is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Pipeline{
		catalog:     catalog,
		renderer:    opts.Renderer,
		classifier:  opts.Classifier,
		enhancer:    opts.Enhancer,
		httpClient:  client,
		rng:         rng,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

// Produce runs the per-product loop over the requested products (all catalog
// products when products is nil) and returns the finished mockups in catalog
// order plus the warnings for products that were dropped.
func (p *Pipeline) Produce(ctx context.Context, candidates []domain.LogoCandidate, enhance bool, products []string) ([]domain.MockupResult, []string, error) {
	if len(candidates) == 0 {
		return nil, nil, domain.ErrNoLogoFound
	}

	selected, err := p.selectProducts(products)
	if err != nil {
		return nil, nil, err
	}

	results := make([]*domain.MockupResult, len(selected))
	warnings := make([]string, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, productKey := range selected {
		i, productKey := i, productKey
		g.Go(func() error {
			result, warning := p.produceOne(gctx, productKey, candidates, enhance)
			results[i] = result
			warnings[i] = warning
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Re-pack in catalog order, dropping failed products.
	var out []domain.MockupResult
	var warn []string
	for i := range selected {
		if results[i] != nil {
			out = append(out, *results[i])
		}
		if warnings[i] != "" {
			warn = append(warn, warnings[i])
		}
	}
	return out, warn, nil
}

// produceOne walks one product through the state machine. A non-empty
// warning means the product was dropped.
func (p *Pipeline) produceOne(ctx context.Context, productKey string, candidates []domain.LogoCandidate, enhance bool) (*domain.MockupResult, string) {
	state := statePending
	log := p.logger.With().Str("product", productKey).Logger()

	candidate := p.pickCandidate(candidates)
	brightness := p.classifier.Classify(ctx, candidate.SourceURL)

	tpl, err := p.catalog.Select(productKey, brightness)
	if err != nil {
		// Validate ran at startup, so a miss here means the caller asked
		// for a product outside the catalog.
		return nil, fmt.Sprintf("%s: %v", productKey, err)
	}

	state = stateRendering
	log.Debug().Str("state", string(state)).Str("template", tpl.TemplateID).Str("logo", candidate.SourceURL).Msg("pipeline: rendering")

	href, err := p.renderer.Render(ctx, tpl.TemplateID, tpl.PlaceholderID, candidate.SourceURL)
	if err != nil {
		state = stateRenderFailed
		log.Warn().Err(err).Str("state", string(state)).Msg("pipeline: render failed, dropping product")
		return nil, fmt.Sprintf("%s: render failed: %v", productKey, err)
	}

	img, err := logo.FetchImage(ctx, p.httpClient, href)
	if err != nil {
		state = stateRenderFailed
		log.Warn().Err(err).Str("state", string(state)).Msg("pipeline: rendered image download failed, dropping product")
		return nil, fmt.Sprintf("%s: render failed: %v", productKey, err)
	}
	data, err := logo.NormalizeRGB(img)
	if err != nil {
		state = stateRenderFailed
		log.Warn().Err(err).Str("state", string(state)).Msg("pipeline: rendered image normalization failed, dropping product")
		return nil, fmt.Sprintf("%s: render failed: %v", productKey, err)
	}
	state = stateRendered

	if enhance && p.enhancer != nil {
		state = stateEnhancing
		enhanced, ok, err := p.enhancer.EnhanceImage(ctx, enhanceInstruction, data)
		switch {
		case err != nil:
			state = stateEnhanceSkipped
			log.Warn().Err(err).Str("state", string(state)).Msg("pipeline: enhancement failed, keeping rendered image")
		case ok:
			state = stateEnhanced
			data = enhanced
		default:
			state = stateEnhanceSkipped
		}
	}

	state = stateDone
	log.Debug().Str("state", string(state)).Msg("pipeline: product finished")
	return &domain.MockupResult{
		ProductKey: productKey,
		Label:      Label(productKey),
		Image:      data,
	}, ""
}

// pickCandidate draws uniformly from the pool. Candidates are sampled with
// replacement: each product draws independently, so the same logo may land
// on several products.
func (p *Pipeline) pickCandidate(candidates []domain.LogoCandidate) domain.LogoCandidate {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return candidates[p.rng.Intn(len(candidates))]
}

func (p *Pipeline) selectProducts(products []string) ([]string, error) {
	if len(products) == 0 {
		return p.catalog.Products(), nil
	}
	known := make(map[string]struct{})
	for _, key := range p.catalog.Products() {
		known[key] = struct{}{}
	}
	// Honor catalog order regardless of request order.
	requested := make(map[string]struct{}, len(products))
	for _, key := range products {
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("pipeline: unknown product %q", key)
		}
		requested[key] = struct{}{}
	}
	var out []string
	for _, key := range p.catalog.Products() {
		if _, ok := requested[key]; ok {
			out = append(out, key)
		}
	}
	return out, nil
}
