package mockup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brandmock/internal/domain"
)

type stubRenderer struct {
	href    string
	failFor map[string]bool
	calls   []string
}

func (r *stubRenderer) Render(_ context.Context, templateID, placeholderID, imageURL string) (string, error) {
	r.calls = append(r.calls, templateID)
	if r.failFor[templateID] {
		return "", fmt.Errorf("%w: http 500", domain.ErrRenderFailed)
	}
	_ = placeholderID
	_ = imageURL
	return r.href, nil
}

type stubClassifier struct {
	class domain.BrightnessClass
}

func (c stubClassifier) Classify(context.Context, string) domain.BrightnessClass {
	return c.class
}

type stubEnhancer struct {
	out   []byte
	ok    bool
	err   error
	calls int
}

func (e *stubEnhancer) EnhanceImage(context.Context, string, []byte) ([]byte, bool, error) {
	e.calls++
	return e.out, e.ok, e.err
}

// renderHost serves a small PNG as the "rendered" mockup image.
func renderHost(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{50, 60, 70, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
}

func candidates() []domain.LogoCandidate {
	return []domain.LogoCandidate{
		{SourceURL: "https://cdn.example.com/logo-a.png", Format: domain.FormatPNG, Origin: domain.OriginDirectory},
		{SourceURL: "https://cdn.example.com/logo-b.png", Format: domain.FormatPNG, Origin: domain.OriginDirectory},
	}
}

func newTestPipeline(t *testing.T, renderer Renderer, enhancer Enhancer, concurrency int) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineOptions{
		Renderer:    renderer,
		Classifier:  stubClassifier{class: domain.BrightnessLight},
		Enhancer:    enhancer,
		Rand:        rand.New(rand.NewSource(1)),
		Concurrency: concurrency,
	})
	if err != nil {
		t.Fatalf("NewPipeline error: %v", err)
	}
	return p
}

func TestProduceAllProductsInCatalogOrder(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	p := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, nil, 1)
	results, warnings, err := p.Produce(context.Background(), candidates(), false, nil)
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := []string{"tshirt", "bottle", "hat", "bag", "mug"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, r := range results {
		if r.ProductKey != want[i] {
			t.Fatalf("result order mismatch at %d: %s", i, r.ProductKey)
		}
		if len(r.Image) == 0 || r.Label == "" {
			t.Fatalf("incomplete result: %+v", r.ProductKey)
		}
	}
}

func TestProduceOrderPreservedWithConcurrency(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	p := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, nil, 4)
	results, _, err := p.Produce(context.Background(), candidates(), false, nil)
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	want := []string{"tshirt", "bottle", "hat", "bag", "mug"}
	for i, r := range results {
		if r.ProductKey != want[i] {
			t.Fatalf("order not restored under concurrency: %v", results)
		}
	}
}

func TestProduceRenderFailureDropsOnlyThatProduct(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	renderer := &stubRenderer{
		href:    host.URL + "/out.png",
		failFor: map[string]bool{"light-ceramic-mug": true},
	}
	p := newTestPipeline(t, renderer, nil, 1)
	results, warnings, err := p.Produce(context.Background(), candidates(), false, nil)
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 surviving products, got %d", len(results))
	}
	for _, r := range results {
		if r.ProductKey == "mug" {
			t.Fatal("failed product should be absent from results")
		}
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "mug") {
		t.Fatalf("expected a mug warning, got %v", warnings)
	}
}

func TestProduceEnhancementSkippedKeepsRenderedBytes(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	enhancer := &stubEnhancer{ok: false}
	p := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, enhancer, 1)

	baseline, _, err := p.Produce(context.Background(), candidates(), false, []string{"tshirt"})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	enhanced, warnings, err := p.Produce(context.Background(), candidates(), true, []string{"tshirt"})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if enhancer.calls != 1 {
		t.Fatalf("expected one enhancement call, got %d", enhancer.calls)
	}
	if len(warnings) != 0 {
		t.Fatalf("skipped enhancement must not warn: %v", warnings)
	}
	if !bytes.Equal(baseline[0].Image, enhanced[0].Image) {
		t.Fatal("image must equal the pre-enhancement render byte-for-byte")
	}
}

func TestProduceEnhancementReplacesImage(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	enhanced := []byte("enhanced-bytes")
	p := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, &stubEnhancer{out: enhanced, ok: true}, 1)

	results, _, err := p.Produce(context.Background(), candidates(), true, []string{"hat"})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if !bytes.Equal(results[0].Image, enhanced) {
		t.Fatal("expected the enhanced image to replace the render")
	}
}

func TestProduceEnhancementErrorIsNotFatal(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	p := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, &stubEnhancer{err: errors.New("model offline")}, 1)
	results, warnings, err := p.Produce(context.Background(), candidates(), true, []string{"bag"})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the product to survive, got %d results", len(results))
	}
	if len(warnings) != 0 {
		t.Fatalf("enhancement failure should not surface a user warning: %v", warnings)
	}
}

func TestProduceNoCandidatesIsNoLogoFound(t *testing.T) {
	p := newTestPipeline(t, &stubRenderer{href: "unused"}, nil, 1)
	if _, _, err := p.Produce(context.Background(), nil, false, nil); !errors.Is(err, domain.ErrNoLogoFound) {
		t.Fatalf("expected ErrNoLogoFound, got %v", err)
	}
}

func TestProduceUnknownProductRejected(t *testing.T) {
	p := newTestPipeline(t, &stubRenderer{href: "unused"}, nil, 1)
	if _, _, err := p.Produce(context.Background(), candidates(), false, []string{"surfboard"}); err == nil {
		t.Fatal("expected error for unknown product")
	}
}

func TestPickCandidateDeterministicWithSeededRand(t *testing.T) {
	host := renderHost(t)
	defer host.Close()

	r1 := &stubRenderer{href: host.URL + "/out.png"}
	p1 := newTestPipeline(t, r1, nil, 1)
	first := p1.pickCandidate(candidates())

	p2 := newTestPipeline(t, &stubRenderer{href: host.URL + "/out.png"}, nil, 1)
	second := p2.pickCandidate(candidates())

	if first.SourceURL != second.SourceURL {
		t.Fatal("seeded rand should make candidate selection reproducible")
	}
}
