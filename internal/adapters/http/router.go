package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tcarvalho/doc-analyst/internal/core/domain"
	"github.com/tcarvalho/doc-analyst/internal/core/ports"
	"github.com/tcarvalho/doc-analyst/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	accessKey string
	intake    ports.DocumentIntake
	metrics   *metrics.HTTPServerMetrics

	// One submission at a time: mirrors the single processing flag of the
	// original UI. Concurrent submits are rejected, not queued.
	busy atomic.Bool
}

func NewRouter(accessKey string, intake ports.DocumentIntake, m *metrics.HTTPServerMetrics) *Router {
	return &Router{
		accessKey: accessKey,
		intake:    intake,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)

	handler := accessGateMiddleware(rt.accessKey, mux)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) submitDocument(w http.ResponseWriter, r *http.Request) {
	if !rt.busy.CompareAndSwap(false, true) {
		writeError(w, r, domain.WrapError(
			domain.ErrBusy,
			"submit document",
			errors.New("submission already in flight"),
		))
		return
	}
	defer rt.busy.Store(false)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.WrapError(
			domain.ErrInvalidInput,
			"submit document",
			errors.New("multipart field 'file' is required"),
		))
		return
	}
	defer file.Close()

	start := time.Now()
	rec, err := rt.intake.Submit(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rt.metrics.RecordAnalysis(
		serviceName,
		string(rec.Category),
		string(rec.Status),
		tierFor(rec.Category),
		time.Since(start),
	)
	writeJSON(w, http.StatusCreated, rec)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	records, err := rt.intake.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": records})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeError(w, r, domain.WrapError(
			domain.ErrInvalidInput,
			"parse request",
			errors.New("record id is required"),
		))
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := rt.intake.Find(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := rt.intake.Remove(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func tierFor(category domain.Category) string {
	if category == domain.CategoryImage || category == domain.CategoryPDF {
		return "vision"
	}
	return "text"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "error", err)
	}
}
