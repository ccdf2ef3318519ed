package brand

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
)

const (
	candidateCacheTTL     = 15 * time.Minute
	candidateCacheCleanup = 30 * time.Minute
)

// ResolverOptions configures the two-tier logo resolver.
type ResolverOptions struct {
	Directory *DirectoryClient
	Scraper   *Scraper
	Logger    *infra.Logger
}

// Resolver acquires candidate logo URLs for a domain: directory lookup
// first, page scrape only when the directory yields nothing. Results are
// cached per domain so repeated runs for the same brand skip the network.
type Resolver struct {
	directory *DirectoryClient
	scraper   *Scraper
	cache     *gocache.Cache
	logger    zerolog.Logger
}

func NewResolver(opts ResolverOptions) *Resolver {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Resolver{
		directory: opts.Directory,
		scraper:   opts.Scraper,
		cache:     gocache.New(candidateCacheTTL, candidateCacheCleanup),
		logger:    logger,
	}
}

// Resolve returns the ordered, deduplicated candidate list for a domain.
// The list may be empty; the caller decides whether that is fatal.
func (r *Resolver) Resolve(ctx context.Context, d domain.Domain) []domain.LogoCandidate {
	if cached, ok := r.cache.Get(string(d)); ok {
		return cached.([]domain.LogoCandidate)
	}

	candidates, err := r.directory.Lookup(ctx, d)
	if err != nil {
		r.logger.Warn().Err(err).Str("domain", string(d)).Msg("resolver: directory lookup failed, falling back to scrape")
	}

	if len(candidates) == 0 && r.scraper != nil {
		candidates = r.scraper.Scrape(ctx, d)
	}

	if len(candidates) > 0 {
		r.cache.Set(string(d), candidates, gocache.DefaultExpiration)
	}
	return candidates
}
