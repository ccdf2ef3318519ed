// Package pdfdoc assembles finished mockups into downloadable documents: a
// plain mockup book (one product per page) and a sales-sheet variant with a
// caption, color swatch legend, and contact footer.
package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"brandmock/internal/domain"
)

const (
	pageWidth  = 210.0 // A4 portrait, mm
	imageSide  = 150.0
	marginTop  = 30.0
	swatchSide = 12.0
)

// Swatch is one entry of the sales sheet's product-color legend.
type Swatch struct {
	Name    string
	R, G, B int
}

// DefaultSwatches is the fixed garment color legend printed on every sales
// sheet.
var DefaultSwatches = []Swatch{
	{Name: "Jet Black", R: 17, G: 17, B: 17},
	{Name: "Snow White", R: 245, G: 245, B: 245},
	{Name: "Navy", R: 22, G: 41, B: 79},
	{Name: "Heather Gray", R: 158, G: 160, B: 165},
	{Name: "Forest", R: 26, G: 94, B: 58},
}

// SalesSheetOptions carries the collateral fields printed around the
// mockups.
type SalesSheetOptions struct {
	Caption      string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Swatches     []Swatch
}

// BuildMockupBook lays out one A4 page per mockup: the product label on top,
// the composited image centered beneath it.
func BuildMockupBook(results []domain.MockupResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("pdf: no mockups to lay out")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Product Mockups", false)
	for i, result := range results {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, result.Label, "", 1, "C", false, 0, "")
		if err := placeImage(pdf, fmt.Sprintf("mockup-%d", i), result.Image, marginTop); err != nil {
			return nil, err
		}
	}
	return output(pdf)
}

// BuildSalesSheet produces the collateral variant: a cover page with the
// caption, swatch legend, and contact footer, followed by the product pages.
func BuildSalesSheet(results []domain.MockupResult, opts SalesSheetOptions) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("pdf: no mockups to lay out")
	}
	swatches := opts.Swatches
	if len(swatches) == 0 {
		swatches = DefaultSwatches
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Product Mockups", false)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, "Branded Product Line", "", 1, "C", false, 0, "")
	if opts.Caption != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6, opts.Caption, "", "C", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Available Colors", "", 1, "L", false, 0, "")
	x := pdf.GetX()
	y := pdf.GetY()
	for _, sw := range swatches {
		pdf.SetFillColor(sw.R, sw.G, sw.B)
		pdf.SetDrawColor(120, 120, 120)
		pdf.Rect(x, y, swatchSide, swatchSide, "FD")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x, y+swatchSide+1)
		pdf.CellFormat(swatchSide+18, 4, sw.Name, "", 0, "L", false, 0, "")
		x += swatchSide + 22
	}
	pdf.SetY(y + swatchSide + 10)

	if opts.ContactName != "" || opts.ContactEmail != "" || opts.ContactPhone != "" {
		pdf.SetY(-40)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range []string{opts.ContactName, opts.ContactEmail, opts.ContactPhone} {
			if line != "" {
				pdf.CellFormat(0, 5, line, "", 1, "C", false, 0, "")
			}
		}
	}

	for i, result := range results {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, result.Label, "", 1, "C", false, 0, "")
		if err := placeImage(pdf, fmt.Sprintf("sheet-%d", i), result.Image, marginTop); err != nil {
			return nil, err
		}
	}
	return output(pdf)
}

func placeImage(pdf *fpdf.Fpdf, name string, data []byte, top float64) error {
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return fmt.Errorf("pdf: register image: %v", pdf.Error())
	}
	x := (pageWidth - imageSide) / 2
	pdf.ImageOptions(name, x, top, imageSide, 0, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("pdf: place image: %v", pdf.Error())
	}
	return nil
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}
