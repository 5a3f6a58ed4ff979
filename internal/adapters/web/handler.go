// Package web serves the read-only HTML view over the session samples.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"limsmock/pkg/domain"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the index, sample list and sample detail pages.
type Handler struct {
	AppName string
	Session *Session
	log     *zap.Logger
	tmpl    *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(appName string, session *Session, log *zap.Logger) (*Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if session == nil {
		session = NewSession()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Handler{AppName: appName, Session: session, log: log, tmpl: tmpl}, nil
}

type page struct {
	AppName string
	PageID  string
	Samples []domain.Sample
	Sample  *domain.Sample
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/":
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleIndex(w, r)
	case path == "/samples" || path == "/samples/":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleSamples(w, r)
	case strings.HasPrefix(path, "/samples/"):
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/samples/"), "/")
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		h.handleSample(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	samples := h.Session.Samples()
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"name": h.AppName, "samples": len(samples)})
		return
	}
	h.render(w, "index.html", page{AppName: h.AppName, PageID: "index", Samples: samples})
}

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	samples := h.Session.Samples()
	if samples == nil {
		samples = []domain.Sample{}
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"samples": samples})
		return
	}
	h.render(w, "samples.html", page{AppName: h.AppName, PageID: "samples", Samples: samples})
}

func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request, id string) {
	var found *domain.Sample
	for _, s := range h.Session.Samples() {
		if s.ID == id {
			found = &s
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, domain.NewNotFound(domain.EntitySample, id).Error())
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"sample": found})
		return
	}
	h.render(w, "sample.html", page{AppName: h.AppName, PageID: "sample", Sample: found})
}

func (h *Handler) render(w http.ResponseWriter, name string, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("render template", zap.String("template", name), zap.Error(err))
	}
}

// wantsJSON reports whether the client asked for JSON via ?format=json or
// the Accept header.
func wantsJSON(r *http.Request) bool {
	if f := strings.ToLower(r.URL.Query().Get("format")); f != "" {
		return f == "json"
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
