package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
	"brandmock/internal/storage"
)

type stubNormalizer struct {
	domain domain.Domain
	err    error
}

func (s stubNormalizer) Normalize(context.Context, string) (domain.Domain, error) {
	return s.domain, s.err
}

type stubResolver struct {
	candidates []domain.LogoCandidate
}

func (s stubResolver) Resolve(context.Context, domain.Domain) []domain.LogoCandidate {
	return s.candidates
}

type stubPipeline struct {
	results  []domain.MockupResult
	warnings []string
	err      error
}

func (s stubPipeline) Produce(context.Context, []domain.LogoCandidate, bool, []string) ([]domain.MockupResult, []string, error) {
	return s.results, s.warnings, s.err
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{100, 100, 100, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testApp(t *testing.T, normalizer domainNormalizer, resolver logoResolver, pipeline mockupProducer) *App {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	cfg := &infra.Config{StorageBaseURL: "http://localhost:8080/static"}
	return NewApp(cfg, zerolog.Nop(), normalizer, resolver, pipeline, store)
}

func postMockups(t *testing.T, app *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/mockups", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.CreateMockups(rec, req)
	return rec
}

func TestCreateMockupsInvalidDomain(t *testing.T) {
	app := testApp(t,
		stubNormalizer{err: fmt.Errorf("resolve: %w", domain.ErrInvalidDomain)},
		stubResolver{}, stubPipeline{})

	rec := postMockups(t, app, `{"brand":"definitely not a real brand"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_DOMAIN") {
		t.Fatalf("body missing INVALID_DOMAIN: %s", rec.Body.String())
	}
}

func TestCreateMockupsNoLogoFound(t *testing.T) {
	app := testApp(t, stubNormalizer{domain: "example.com"}, stubResolver{}, stubPipeline{})

	rec := postMockups(t, app, `{"brand":"example.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NO_LOGO_FOUND") {
		t.Fatalf("body missing NO_LOGO_FOUND: %s", rec.Body.String())
	}
}

func TestCreateMockupsSuccess(t *testing.T) {
	pngData := testPNG(t)
	app := testApp(t,
		stubNormalizer{domain: "example.com"},
		stubResolver{candidates: []domain.LogoCandidate{{SourceURL: "https://cdn.example.com/logo.png", Format: domain.FormatPNG}}},
		stubPipeline{
			results: []domain.MockupResult{
				{ProductKey: "tshirt", Label: "T-Shirt", Image: pngData},
				{ProductKey: "hat", Label: "Hat", Image: pngData},
			},
			warnings: []string{"mug: render failed: http 500"},
		})

	rec := postMockups(t, app, `{"brand":"example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp createMockupsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Domain != "example.com" || resp.ID == "" {
		t.Fatalf("unexpected response envelope: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if !strings.HasPrefix(resp.Results[0].AssetURL, "http://localhost:8080/static/") {
		t.Fatalf("asset url mismatch: %s", resp.Results[0].AssetURL)
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("warnings not surfaced: %+v", resp.Warnings)
	}

	// The per-product image and the PDF must both be persisted.
	stored, err := app.Store.Read(context.Background(), resp.ID+"/tshirt.png")
	if err != nil {
		t.Fatalf("stored image missing: %v", err)
	}
	if !bytes.Equal(stored, pngData) {
		t.Fatal("stored image bytes mismatch")
	}
	pdf, err := app.Store.Read(context.Background(), resp.ID+"/"+pdfKeySuffix)
	if err != nil {
		t.Fatalf("stored pdf missing: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("stored document is not a PDF")
	}
}

func TestCreateMockupsAllProductsFailed(t *testing.T) {
	app := testApp(t,
		stubNormalizer{domain: "example.com"},
		stubResolver{candidates: []domain.LogoCandidate{{SourceURL: "https://cdn.example.com/logo.png"}}},
		stubPipeline{warnings: []string{"tshirt: render failed"}})

	rec := postMockups(t, app, `{"brand":"example.com"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestDownloadPDFNotFound(t *testing.T) {
	app := testApp(t, stubNormalizer{}, stubResolver{}, stubPipeline{})
	req := httptest.NewRequest(http.MethodGet, "/v1/mockups/unknown/pdf", nil)
	rec := httptest.NewRecorder()
	app.DownloadPDF(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
