package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"brandmock/internal/domain"
	"brandmock/internal/infra"
	"brandmock/internal/storage"
)

// The pipeline collaborators are held as narrow interfaces so handler tests
// can stand in fakes without spinning up the network tiers.

type domainNormalizer interface {
	Normalize(ctx context.Context, input string) (domain.Domain, error)
}

type logoResolver interface {
	Resolve(ctx context.Context, d domain.Domain) []domain.LogoCandidate
}

type mockupProducer interface {
	Produce(ctx context.Context, candidates []domain.LogoCandidate, enhance bool, products []string) ([]domain.MockupResult, []string, error)
}

// App is the handler container: configuration, logger, and the mockup
// pipeline collaborators.
type App struct {
	Cfg        *infra.Config
	Logger     zerolog.Logger
	Normalizer domainNormalizer
	Resolver   logoResolver
	Pipeline   mockupProducer
	Store      *storage.FileStore
}

// NewApp wires the handler container.
func NewApp(cfg *infra.Config, logger infra.Logger, normalizer domainNormalizer, resolver logoResolver, pipeline mockupProducer, store *storage.FileStore) *App {
	return &App{
		Cfg:        cfg,
		Logger:     logger,
		Normalizer: normalizer,
		Resolver:   resolver,
		Pipeline:   pipeline,
		Store:      store,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// assetURL joins the configured public base URL with a storage key.
func (a *App) assetURL(key string) string {
	return strings.TrimRight(a.Cfg.StorageBaseURL, "/") + "/" + key
}
