package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	ziputil "brandmock/pkg/zip"
)

// DownloadArchive bundles a run's mockup images into a single ZIP download.
func (a *App) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	ctx := r.Context()

	keys, err := a.Store.List(ctx, runID)
	if err != nil {
		a.Logger.Error().Err(err).Str("run_id", runID).Msg("handlers: archive list failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to list run assets")
		return
	}

	var assets []ziputil.Asset
	for _, key := range keys {
		if !strings.HasSuffix(key, ".png") {
			continue
		}
		data, err := a.Store.Read(ctx, key)
		if err != nil {
			a.Logger.Error().Err(err).Str("key", key).Msg("handlers: archive read failed")
			continue
		}
		assets = append(assets, ziputil.Asset{
			Filename: path.Base(key),
			Data:     data,
		})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "NOT_FOUND", "no mockups for this run")
		return
	}

	archive, err := ziputil.ArchiveAssets(assets)
	if err != nil {
		a.Logger.Error().Err(err).Str("run_id", runID).Msg("handlers: archive build failed")
		a.error(w, http.StatusInternalServerError, "INTERNAL", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mockups-"+runID+".zip"))
	_, _ = w.Write(archive)
}
