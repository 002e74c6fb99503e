package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/report"
	"github.com/brunobiangulo/dmforge/store"
)

type handler struct {
	pipeline *dmforge.Pipeline
	store    *store.Store
	dataDir  string
}

func newHandler(p *dmforge.Pipeline, st *store.Store, dataDir string) *handler {
	return &handler{pipeline: p, store: st, dataDir: dataDir}
}

// POST /convert
// Accepts a multipart upload and converts it into data modules. The
// optional form fields mode, id_width, skip_merge and date override the
// server config for this run.
func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err != nil { // 100MB max
		writeError(w, http.StatusBadRequest, "expected multipart upload with a 'file' field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// Sanitise filename to prevent path traversal.
	safeName := filepath.Base(header.Filename)

	pipeline, err := h.requestPipeline(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The extractor dispatches on the extension, so keep it.
	tmp, err := os.CreateTemp("", "dmforge-upload-*"+filepath.Ext(safeName))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process file")
		slog.Error("creating temp file", "error", err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "failed to save file")
		slog.Error("saving uploaded file", "error", err)
		return
	}
	tmp.Close()

	id := uuid.NewString()
	outDir := filepath.Join(h.dataDir, id)
	cfg := pipeline.Config()

	if err := h.store.CreateRun(ctx, store.Run{
		ID:        id,
		Source:    safeName,
		Mode:      cfg.Mode,
		IDWidth:   cfg.IDWidth,
		OutputDir: outDir,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record run")
		slog.Error("creating run", "error", err)
		return
	}

	res, err := pipeline.ProcessFile(ctx, tmpPath)
	if err != nil {
		h.failRun(ctx, id, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := report.Write(outDir, res, report.Meta{Source: safeName, Mode: cfg.Mode}); err != nil {
		h.failRun(ctx, id, err)
		writeError(w, http.StatusInternalServerError, "failed to write output")
		slog.Error("writing output", "run", id, "error", err)
		return
	}

	rows := make([]store.Module, 0, len(res.Documents))
	for _, doc := range res.Documents {
		rows = append(rows, store.NewModule(id, doc.Module))
	}
	if err := h.store.InsertModules(ctx, id, rows); err != nil {
		h.failRun(ctx, id, err)
		writeError(w, http.StatusInternalServerError, "failed to record modules")
		slog.Error("inserting modules", "run", id, "error", err)
		return
	}

	stats := res.Stats
	if err := h.store.FinishRun(ctx, id, stats.Pages, stats.Sections, stats.Modules, stats.Failed); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record run")
		slog.Error("finishing run", "run", id, "error", err)
		return
	}

	failures := make([]map[string]interface{}, 0, len(res.Failed))
	for _, f := range res.Failed {
		failures = append(failures, map[string]interface{}{
			"sequence": f.Sequence,
			"filename": f.Filename,
			"error":    f.Err.Error(),
		})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"run_id":          id,
		"module_count":    stats.Modules,
		"modules":         rows,
		"failed":          failures,
		"download_url":    "/runs/" + id + "/archive",
		"processing_time": stats.Elapsed.Round(time.Millisecond).String(),
	})
}

// requestPipeline returns the shared pipeline, or builds one when the
// form carries config overrides.
func (h *handler) requestPipeline(r *http.Request) (*dmforge.Pipeline, error) {
	cfg := h.pipeline.Config()
	changed := false

	if v := r.FormValue("mode"); v != "" {
		cfg.Mode = v
		cfg.IDWidth = 0 // re-derive the width from the new mode
		changed = true
	}
	if v := r.FormValue("id_width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("id_width must be an integer")
		}
		cfg.IDWidth = n
		changed = true
	}
	if v := r.FormValue("skip_merge"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("skip_merge must be a boolean")
		}
		cfg.SkipMerge = b
		changed = true
	}
	if v := r.FormValue("date"); v != "" {
		cfg.Date = v
		changed = true
	}

	if !changed {
		return h.pipeline, nil
	}
	return dmforge.New(cfg)
}

func (h *handler) failRun(ctx context.Context, id string, cause error) {
	if err := h.store.FailRun(ctx, id, cause.Error()); err != nil {
		slog.Error("marking run failed", "run", id, "error", err)
	}
}

// GET /runs
func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		slog.Error("listing runs", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// GET /runs/{id}
func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.store.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read run")
		slog.Error("reading run", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// DELETE /runs/{id}
func (h *handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read run")
		slog.Error("reading run", "error", err)
		return
	}

	if err := h.store.DeleteRun(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete run")
		slog.Error("deleting run", "run", id, "error", err)
		return
	}

	// Only remove output the server wrote itself.
	if run.OutputDir != "" && filepath.Dir(run.OutputDir) == filepath.Clean(h.dataDir) {
		if err := os.RemoveAll(run.OutputDir); err != nil {
			slog.Warn("removing run output", "run", id, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /runs/{id}/modules
func (h *handler) handleListModules(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.GetRun(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read run")
		slog.Error("reading run", "error", err)
		return
	}

	modules, err := h.store.ListModules(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list modules")
		slog.Error("listing modules", "run", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"modules": modules,
		"count":   len(modules),
	})
}

// GET /runs/{id}/modules/{filename}
// Serves the rendered XML for one module.
func (h *handler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	filename := filepath.Base(r.PathValue("filename"))

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read run")
		slog.Error("reading run", "error", err)
		return
	}

	if _, err := h.store.GetModule(r.Context(), id, filename); err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "module not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read module")
		slog.Error("reading module", "run", id, "file", filename, "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	http.ServeFile(w, r, filepath.Join(run.OutputDir, filename))
}

// GET /runs/{id}/archive
// Streams the run's output directory as a zip download.
func (h *handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read run")
		slog.Error("reading run", "error", err)
		return
	}

	entries, err := os.ReadDir(run.OutputDir)
	if err != nil {
		writeError(w, http.StatusNotFound, "run output not found on this server")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, id))
	w.WriteHeader(http.StatusOK)

	// Past this point errors can only be logged; the status line is
	// already out.
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyZipEntry(zw, run.OutputDir, entry.Name()); err != nil {
			slog.Error("writing archive entry", "run", id, "file", entry.Name(), "error", err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		slog.Error("closing archive", "run", id, "error", err)
	}
}

func copyZipEntry(zw *zip.Writer, dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store unavailable")
		slog.Error("reading totals", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"runs":    totals.Runs,
		"modules": totals.Modules,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
