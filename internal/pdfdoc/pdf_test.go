package pdfdoc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"brandmock/internal/domain"
)

func sampleResults(t *testing.T, n int) []domain.MockupResult {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{90, 90, 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	keys := []string{"tshirt", "bottle", "hat", "bag", "mug"}
	out := make([]domain.MockupResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.MockupResult{
			ProductKey: keys[i%len(keys)],
			Label:      "Product " + keys[i%len(keys)],
			Image:      buf.Bytes(),
		})
	}
	return out
}

func TestBuildMockupBook(t *testing.T) {
	data, err := BuildMockupBook(sampleResults(t, 3))
	if err != nil {
		t.Fatalf("BuildMockupBook error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not look like a PDF")
	}
}

func TestBuildMockupBookRejectsEmptyInput(t *testing.T) {
	if _, err := BuildMockupBook(nil); err == nil {
		t.Fatal("expected error for empty result set")
	}
}

func TestBuildSalesSheet(t *testing.T) {
	data, err := BuildSalesSheet(sampleResults(t, 2), SalesSheetOptions{
		Caption:      "Spring collection mockups",
		ContactName:  "Sales Team",
		ContactEmail: "sales@example.com",
		ContactPhone: "+1 555 0100",
	})
	if err != nil {
		t.Fatalf("BuildSalesSheet error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output does not look like a PDF")
	}
	if len(data) == 0 {
		t.Fatal("empty sales sheet")
	}
}
