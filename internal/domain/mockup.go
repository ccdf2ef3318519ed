package domain

// Domain is a validated DNS-style hostname identifying a brand's website.
type Domain string

func (d Domain) String() string { return string(d) }

// LogoFormat identifies the encoded format of a candidate logo asset.
type LogoFormat string

const (
	FormatPNG     LogoFormat = "png"
	FormatJPG     LogoFormat = "jpg"
	FormatSVG     LogoFormat = "svg"
	FormatUnknown LogoFormat = "unknown"
)

// CandidateOrigin records which acquisition tier produced a candidate.
type CandidateOrigin string

const (
	OriginDirectory     CandidateOrigin = "DIRECTORY"
	OriginScrapeAttr    CandidateOrigin = "SCRAPE_ATTR"
	OriginScrapeIcon    CandidateOrigin = "SCRAPE_ICON"
	OriginScrapeGeneric CandidateOrigin = "SCRAPE_GENERIC"
)

// LogoCandidate is an unverified image URL suspected to depict a brand's
// logo. Only candidates that passed MIME validation are retained by the
// resolver; SVG candidates bypass raster validation but cannot be resized
// locally.
type LogoCandidate struct {
	SourceURL string
	Format    LogoFormat
	Origin    CandidateOrigin
}

// BrightnessClass drives the choice between light- and dark-background
// product templates.
type BrightnessClass string

const (
	BrightnessLight BrightnessClass = "light"
	BrightnessDark  BrightnessClass = "dark"
)

// ProductTemplate is an immutable catalog entry describing how one product
// variant is rendered by the template service.
type ProductTemplate struct {
	ProductKey    string
	Variant       BrightnessClass
	TemplateID    string
	PlaceholderID string
	TargetWidth   int
	TargetHeight  int
}

// MockupResult is one finished product image. Image holds a PNG-encoded
// RGBA raster regardless of what the rendering service returned.
type MockupResult struct {
	ProductKey string
	Label      string
	Image      []byte
}

// RunResult aggregates a single mockup generation run. Warnings carry the
// per-product failures that did not abort the run.
type RunResult struct {
	ID       string
	Domain   Domain
	Results  []MockupResult
	Warnings []string
}
