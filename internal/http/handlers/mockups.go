package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandmock/internal/domain"
	"brandmock/internal/pdfdoc"
)

const pdfKeySuffix = "mockups.pdf"

type createMockupsRequest struct {
	Brand      string   `json:"brand"`
	Enhance    bool     `json:"enhance"`
	Products   []string `json:"products,omitempty"`
	SalesSheet bool     `json:"sales_sheet,omitempty"`
	Caption    string   `json:"caption,omitempty"`
}

type mockupItem struct {
	Product  string `json:"product"`
	Label    string `json:"label"`
	AssetURL string `json:"asset_url"`
}

type createMockupsResponse struct {
	ID       string       `json:"id"`
	Domain   string       `json:"domain"`
	Results  []mockupItem `json:"results"`
	Warnings []string     `json:"warnings,omitempty"`
	PDFURL   string       `json:"pdf_url"`
}

// CreateMockups runs the full pipeline for one brand: normalize, resolve,
// render per product, persist the images and the assembled PDF.
func (a *App) CreateMockups(w http.ResponseWriter, r *http.Request) {
	var req createMockupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Brand == "" {
		a.error(w, http.StatusBadRequest, "BAD_REQUEST", "brand is required")
		return
	}

	ctx := r.Context()

	d, err := a.Normalizer.Normalize(ctx, req.Brand)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDomain) {
			a.error(w, http.StatusBadRequest, "INVALID_DOMAIN", fmt.Sprintf("%q could not be resolved to a domain", req.Brand))
			return
		}
		a.Logger.Error().Err(err).Str("brand", req.Brand).Msg("handlers: normalize failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "normalization failed")
		return
	}

	candidates := a.Resolver.Resolve(ctx, d)
	if len(candidates) == 0 {
		a.error(w, http.StatusNotFound, "NO_LOGO_FOUND", fmt.Sprintf("no logo found for %s", d))
		return
	}

	results, warnings, err := a.Pipeline.Produce(ctx, candidates, req.Enhance, req.Products)
	if err != nil {
		if errors.Is(err, domain.ErrNoLogoFound) {
			a.error(w, http.StatusNotFound, "NO_LOGO_FOUND", fmt.Sprintf("no logo found for %s", d))
			return
		}
		a.Logger.Error().Err(err).Str("domain", string(d)).Msg("handlers: pipeline failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "mockup generation failed")
		return
	}
	if len(results) == 0 {
		a.error(w, http.StatusBadGateway, "RENDER_FAILED", "every product failed to render")
		return
	}

	runID := uuid.NewString()
	items := make([]mockupItem, 0, len(results))
	for _, result := range results {
		key, err := a.Store.Write(ctx, fmt.Sprintf("%s/%s.png", runID, result.ProductKey), result.Image)
		if err != nil {
			a.Logger.Error().Err(err).Str("product", result.ProductKey).Msg("handlers: persist mockup failed")
			a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to persist mockups")
			return
		}
		items = append(items, mockupItem{
			Product:  result.ProductKey,
			Label:    result.Label,
			AssetURL: a.assetURL(key),
		})
	}

	var pdfBytes []byte
	if req.SalesSheet {
		pdfBytes, err = pdfdoc.BuildSalesSheet(results, pdfdoc.SalesSheetOptions{Caption: req.Caption})
	} else {
		pdfBytes, err = pdfdoc.BuildMockupBook(results)
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: pdf assembly failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to assemble document")
		return
	}
	pdfKey, err := a.Store.Write(ctx, fmt.Sprintf("%s/%s", runID, pdfKeySuffix), pdfBytes)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: persist pdf failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to persist document")
		return
	}

	a.Logger.Info().
		Str("run_id", runID).
		Str("domain", string(d)).
		Int("products", len(items)).
		Int("warnings", len(warnings)).
		Msg("handlers: mockup run finished")

	a.json(w, http.StatusOK, createMockupsResponse{
		ID:       runID,
		Domain:   string(d),
		Results:  items,
		Warnings: warnings,
		PDFURL:   a.assetURL(pdfKey),
	})
}

// DownloadPDF streams the assembled document for a prior run.
func (a *App) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	data, err := a.Store.Read(r.Context(), fmt.Sprintf("%s/%s", runID, pdfKeySuffix))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "NOT_FOUND", "no document for this run")
			return
		}
		a.Logger.Error().Err(err).Str("run_id", runID).Msg("handlers: pdf read failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to read document")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="mockups.pdf"`)
	_, _ = w.Write(data)
}
