package mockup

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"brandmock/internal/domain"
)

// productOrder fixes catalog iteration order; mockups come out of the
// pipeline in this sequence.
var productOrder = []string{"tshirt", "bottle", "hat", "bag", "mug"}

// productLabels maps product keys onto the captions printed next to each
// mockup. Keys missing here fall back to title-casing.
var productLabels = map[string]string{
	"tshirt": "T-Shirt",
	"bottle": "Steel Water Bottle",
	"hat":    "Hat",
	"bag":    "Tote Bag",
	"mug":    "Mug",
}

var titleCaser = cases.Title(language.English)

// Catalog is the immutable (product, brightness) -> template mapping. It is
// built once at startup; Validate must pass before the pipeline runs.
type Catalog struct {
	entries map[string]domain.ProductTemplate
	order   []string
}

// NewCatalog builds a catalog from explicit entries, keyed
// "<dark|light>_<product>". Iteration order follows the order products first
// appear in entries.
func NewCatalog(entries []domain.ProductTemplate) *Catalog {
	c := &Catalog{entries: make(map[string]domain.ProductTemplate, len(entries))}
	seen := make(map[string]struct{})
	for _, e := range entries {
		c.entries[catalogKey(e.ProductKey, e.Variant)] = e
		if _, ok := seen[e.ProductKey]; !ok {
			seen[e.ProductKey] = struct{}{}
			c.order = append(c.order, e.ProductKey)
		}
	}
	return c
}

// DefaultCatalog returns the built-in product line: t-shirt, steel water
// bottle, hat, tote bag, and mug, each with a light- and dark-background
// template.
func DefaultCatalog() *Catalog {
	entries := []domain.ProductTemplate{
		{ProductKey: "tshirt", Variant: domain.BrightnessLight, TemplateID: "light-tshirt-front", PlaceholderID: "print-area", TargetWidth: 295, TargetHeight: 286},
		{ProductKey: "tshirt", Variant: domain.BrightnessDark, TemplateID: "dark-tshirt-front", PlaceholderID: "print-area", TargetWidth: 295, TargetHeight: 286},
		{ProductKey: "bottle", Variant: domain.BrightnessLight, TemplateID: "light-steel-bottle", PlaceholderID: "wrap-label", TargetWidth: 160, TargetHeight: 240},
		{ProductKey: "bottle", Variant: domain.BrightnessDark, TemplateID: "dark-steel-bottle", PlaceholderID: "wrap-label", TargetWidth: 160, TargetHeight: 240},
		{ProductKey: "hat", Variant: domain.BrightnessLight, TemplateID: "light-cap-front", PlaceholderID: "crown-panel", TargetWidth: 220, TargetHeight: 140},
		{ProductKey: "hat", Variant: domain.BrightnessDark, TemplateID: "dark-cap-front", PlaceholderID: "crown-panel", TargetWidth: 220, TargetHeight: 140},
		{ProductKey: "bag", Variant: domain.BrightnessLight, TemplateID: "light-tote-bag", PlaceholderID: "front-panel", TargetWidth: 260, TargetHeight: 300},
		{ProductKey: "bag", Variant: domain.BrightnessDark, TemplateID: "dark-tote-bag", PlaceholderID: "front-panel", TargetWidth: 260, TargetHeight: 300},
		{ProductKey: "mug", Variant: domain.BrightnessLight, TemplateID: "light-ceramic-mug", PlaceholderID: "wrap-print", TargetWidth: 180, TargetHeight: 180},
		{ProductKey: "mug", Variant: domain.BrightnessDark, TemplateID: "dark-ceramic-mug", PlaceholderID: "wrap-print", TargetWidth: 180, TargetHeight: 180},
	}
	c := NewCatalog(entries)
	c.order = append([]string(nil), productOrder...)
	return c
}

// Products returns the catalog iteration order.
func (c *Catalog) Products() []string {
	return append([]string(nil), c.order...)
}

// Select maps a product key and brightness class onto the concrete template.
// A miss means the catalog was not validated at startup.
func (c *Catalog) Select(productKey string, brightness domain.BrightnessClass) (domain.ProductTemplate, error) {
	tpl, ok := c.entries[catalogKey(productKey, brightness)]
	if !ok {
		return domain.ProductTemplate{}, fmt.Errorf("catalog: no %s variant for product %q", brightness, productKey)
	}
	return tpl, nil
}

// Validate ensures every iterated product defines both a light and a dark
// variant. A miss is a configuration error, fatal at startup rather than
// per-request.
func (c *Catalog) Validate() error {
	for _, product := range c.order {
		for _, variant := range []domain.BrightnessClass{domain.BrightnessLight, domain.BrightnessDark} {
			if _, ok := c.entries[catalogKey(product, variant)]; !ok {
				return fmt.Errorf("catalog: product %q is missing its %s variant", product, variant)
			}
		}
	}
	return nil
}

func catalogKey(productKey string, brightness domain.BrightnessClass) string {
	return string(brightness) + "_" + productKey
}

// Label derives a human-readable caption from a product key.
func Label(productKey string) string {
	if label, ok := productLabels[productKey]; ok {
		return label
	}
	return titleCaser.String(strings.ReplaceAll(productKey, "_", " "))
}
