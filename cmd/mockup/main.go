package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"brandmock/internal/brand"
	"brandmock/internal/infra"
	"brandmock/internal/logo"
	"brandmock/internal/mockup"
	"brandmock/internal/pdfdoc"
	"brandmock/internal/providers/genai"
	"brandmock/internal/render"
)

// One-shot CLI: run the full mockup pipeline for a single brand and write
// the assembled PDF (plus the individual product images) to disk.
func main() {
	var (
		brandFlag      string
		outFlag        string
		productsFlag   string
		captionFlag    string
		enhanceFlag    bool
		salesSheetFlag bool
		keepImagesFlag bool
	)

	flag.StringVar(&brandFlag, "brand", "", "brand name or domain to generate mockups for")
	flag.StringVar(&outFlag, "out", "mockups.pdf", "output PDF path")
	flag.StringVar(&productsFlag, "products", "", "comma-separated product keys (default: full catalog)")
	flag.StringVar(&captionFlag, "caption", "", "caption for the sales sheet cover page")
	flag.BoolVar(&enhanceFlag, "enhance", false, "run AI enhancement on each rendered mockup")
	flag.BoolVar(&salesSheetFlag, "sales-sheet", false, "assemble a sales sheet instead of the plain mockup book")
	flag.BoolVar(&keepImagesFlag, "keep-images", false, "also write the individual product images next to the PDF")
	flag.Parse()

	if strings.TrimSpace(brandFlag) == "" {
		exitWithError(errors.New("-brand is required"))
	}

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	normalizer := brand.NewNormalizer(brand.NormalizerOptions{
		SearchBaseURL: cfg.SearchBaseURL,
		Timeout:       cfg.FetchTimeout,
		Logger:        &logger,
	})
	resolver := brand.NewResolver(brand.ResolverOptions{
		Directory: brand.NewDirectoryClient(brand.DirectoryOptions{
			BaseURL: cfg.BrandDirectoryURL,
			APIKey:  cfg.BrandDirectoryKey,
			Timeout: cfg.FetchTimeout,
		}),
		Scraper: brand.NewScraper(brand.ScraperOptions{
			Timeout: cfg.FetchTimeout,
			Logger:  &logger,
		}),
		Logger: &logger,
	})

	enhancer, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		exitWithError(err)
	}
	if enhanceFlag && !enhancer.Enabled() {
		exitWithError(errors.New("-enhance requires GEMINI_API_KEY"))
	}

	pipeline, err := mockup.NewPipeline(mockup.PipelineOptions{
		Renderer: render.New(render.Options{
			BaseURL: cfg.RenderBaseURL,
			APIKey:  cfg.RenderAPIKey,
		}),
		Classifier: logo.NewClassifier(logo.ClassifierOptions{
			Threshold: cfg.BrightnessThreshold,
			Timeout:   cfg.FetchTimeout,
			Logger:    &logger,
		}),
		Enhancer:    enhancer,
		Concurrency: cfg.RenderConcurrency,
		Logger:      &logger,
	})
	if err != nil {
		exitWithError(err)
	}

	var products []string
	if strings.TrimSpace(productsFlag) != "" {
		for _, p := range strings.Split(productsFlag, ",") {
			if p = strings.TrimSpace(p); p != "" {
				products = append(products, p)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	d, err := normalizer.Normalize(ctx, brandFlag)
	if err != nil {
		exitWithError(err)
	}
	logger.Info().Str("domain", string(d)).Msg("resolved brand domain")

	candidates := resolver.Resolve(ctx, d)
	if len(candidates) == 0 {
		exitWithError(fmt.Errorf("no logo found for %s", d))
	}
	logger.Info().Int("candidates", len(candidates)).Msg("acquired logo candidates")

	results, warnings, err := pipeline.Produce(ctx, candidates, enhanceFlag, products)
	if err != nil {
		exitWithError(err)
	}
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	if len(results) == 0 {
		exitWithError(errors.New("every product failed to render"))
	}

	var pdfBytes []byte
	if salesSheetFlag {
		pdfBytes, err = pdfdoc.BuildSalesSheet(results, pdfdoc.SalesSheetOptions{Caption: captionFlag})
	} else {
		pdfBytes, err = pdfdoc.BuildMockupBook(results)
	}
	if err != nil {
		exitWithError(err)
	}
	if err := os.WriteFile(outFlag, pdfBytes, 0o644); err != nil {
		exitWithError(err)
	}
	fmt.Printf("wrote %s (%d products)\n", outFlag, len(results))

	if keepImagesFlag {
		dir := filepath.Dir(outFlag)
		for _, result := range results {
			path := filepath.Join(dir, result.ProductKey+".png")
			if err := os.WriteFile(path, result.Image, 0o644); err != nil {
				exitWithError(err)
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
