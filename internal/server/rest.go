package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/amityadav/newsexplorer/internal/core"
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
	"github.com/amityadav/newsexplorer/internal/ui"
)

// Controller is the set of user actions the UI can trigger
type Controller interface {
	OnSearch(ctx context.Context, keyword string) error
	OnHeadlines(ctx context.Context, category string) error
	OnSummarizeRequested(ctx context.Context, articleID string) error
	OnSummaryDismissed(articleID string) error
	OnOpenOriginal(articleID string) error
}

// PageInfo describes the running configuration shown in the page footer
type PageInfo struct {
	Provider  string
	Backend   string
	Model     string
	Headlines bool
}

// CreateUIHandler creates the HTML page and JSON API endpoints
func CreateUIHandler(c Controller, p *ui.Presenter, info PageInfo) http.Handler {
	h := &uiHandler{controller: c, presenter: p, info: info}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /search", h.handleSearchForm)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("POST /api/search", h.handleSearch)
	mux.HandleFunc("GET /api/headlines", h.handleHeadlines)
	mux.HandleFunc("POST /api/articles/{id}/summary", h.handleSummarize)
	mux.HandleFunc("DELETE /api/articles/{id}/summary", h.handleDismiss)
	mux.HandleFunc("POST /api/articles/{id}/open", h.handleOpen)
	return mux
}

type uiHandler struct {
	controller Controller
	presenter  *ui.Presenter
	info       PageInfo
}

func (h *uiHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := ui.Page{
		State:    h.presenter.State(),
		Provider: h.info.Provider,
		Backend:  h.info.Backend,
		Model:    h.info.Model,
	}
	if h.info.Headlines {
		page.Categories = search.Categories
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := ui.Render(w, page); err != nil {
		log.Printf("[HTTP] %v", err)
	}
}

// handleSearchForm serves the plain HTML form; the outcome is rendered by the page
func (h *uiHandler) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.OnSearch(r.Context(), r.FormValue("q")); err != nil {
		log.Printf("[HTTP] Search form: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *uiHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenter.State())
}

func (h *uiHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Keyword string `json:"keyword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
			return
		}
		keyword = body.Keyword
	} else if v := r.FormValue("q"); v != "" {
		keyword = v
	}

	h.respond(w, h.controller.OnSearch(r.Context(), keyword))
}

func (h *uiHandler) handleHeadlines(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.controller.OnHeadlines(r.Context(), r.URL.Query().Get("category")))
}

func (h *uiHandler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.controller.OnSummarizeRequested(r.Context(), r.PathValue("id")))
}

func (h *uiHandler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.controller.OnSummaryDismissed(r.PathValue("id")))
}

func (h *uiHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.OnOpenOriginal(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respond writes the resulting view state, or the error
func (h *uiHandler) respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.State())
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %d: %v", status, err)
	}
	writeJSON(w, status, errorBody{Error: ui.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// StatusFor maps an error to an HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSearchInFlight), errors.Is(err, core.ErrSummaryInFlight):
		return http.StatusConflict
	case errors.Is(err, core.ErrArticleNotFound), errors.Is(err, search.ErrEmptyResult):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, search.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, search.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, search.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, search.ErrNetwork), errors.Is(err, search.ErrUpstream), errors.Is(err, summarizer.ErrInference):
		return http.StatusBadGateway
	case errors.Is(err, summarizer.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
