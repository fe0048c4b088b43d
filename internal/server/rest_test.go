package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amityadav/newsexplorer/internal/core"
	"github.com/amityadav/newsexplorer/internal/search"
	"github.com/amityadav/newsexplorer/internal/summarizer"
	"github.com/amityadav/newsexplorer/internal/ui"
)

// stubController records calls and returns a fixed error
type stubController struct {
	err      error
	keyword  string
	category string
	id       string
	calls    []string
}

func (s *stubController) OnSearch(ctx context.Context, keyword string) error {
	s.calls = append(s.calls, "search")
	s.keyword = keyword
	return s.err
}

func (s *stubController) OnHeadlines(ctx context.Context, category string) error {
	s.calls = append(s.calls, "headlines")
	s.category = category
	return s.err
}

func (s *stubController) OnSummarizeRequested(ctx context.Context, id string) error {
	s.calls = append(s.calls, "summarize")
	s.id = id
	return s.err
}

func (s *stubController) OnSummaryDismissed(id string) error {
	s.calls = append(s.calls, "dismiss")
	s.id = id
	return s.err
}

func (s *stubController) OnOpenOriginal(id string) error {
	s.calls = append(s.calls, "open")
	s.id = id
	return s.err
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		method, path, body string
		wantCall, wantID   string
		wantStatus         int
	}{
		{http.MethodPost, "/api/search", `{"keyword":"climate"}`, "search", "", http.StatusOK},
		{http.MethodGet, "/api/headlines?category=science", "", "headlines", "", http.StatusOK},
		{http.MethodPost, "/api/articles/a3/summary", "", "summarize", "a3", http.StatusOK},
		{http.MethodDelete, "/api/articles/a3/summary", "", "dismiss", "a3", http.StatusOK},
		{http.MethodPost, "/api/articles/a2/open", "", "open", "a2", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ctrl := &stubController{}
			h := CreateUIHandler(ctrl, ui.NewPresenter(), PageInfo{})

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if len(ctrl.calls) != 1 || ctrl.calls[0] != tt.wantCall {
				t.Errorf("calls = %v, want [%s]", ctrl.calls, tt.wantCall)
			}
			if ctrl.id != tt.wantID {
				t.Errorf("id = %q, want %q", ctrl.id, tt.wantID)
			}
		})
	}
}

func TestSearchRequestParsing(t *testing.T) {
	ctrl := &stubController{}
	h := CreateUIHandler(ctrl, ui.NewPresenter(), PageInfo{})

	req := httptest.NewRequest(http.MethodPost, "/api/search?q=elections", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if ctrl.keyword != "elections" {
		t.Errorf("keyword from query = %q", ctrl.keyword)
	}

	req = httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("q=solar+power"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ctrl.keyword != "solar power" {
		t.Errorf("keyword from form = %q", ctrl.keyword)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("form search response = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", rec.Code)
	}
}

func TestErrorResponses(t *testing.T) {
	ctrl := &stubController{err: fmt.Errorf("%w: 401", search.ErrAuth)}
	h := CreateUIHandler(ctrl, ui.NewPresenter(), PageInfo{})

	req := httptest.NewRequest(http.MethodPost, "/api/search?q=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Error, "NEWSAPI_KEY") {
		t.Errorf("error body = %q", body.Error)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{search.ErrAuth, http.StatusUnauthorized},
		{fmt.Errorf("%w: none", search.ErrEmptyResult), http.StatusNotFound},
		{search.ErrRateLimited, http.StatusTooManyRequests},
		{core.ErrSearchInFlight, http.StatusConflict},
		{core.ErrSummaryInFlight, http.StatusConflict},
		{fmt.Errorf("%w: a9", core.ErrArticleNotFound), http.StatusNotFound},
		{search.ErrNetwork, http.StatusBadGateway},
		{&summarizer.InferenceError{Err: errors.New("x")}, http.StatusBadGateway},
		{&summarizer.ModelUnavailableError{Err: errors.New("x")}, http.StatusServiceUnavailable},
		{search.ErrUnsupported, http.StatusNotImplemented},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestIndexPage(t *testing.T) {
	h := CreateUIHandler(&stubController{}, ui.NewPresenter(), PageInfo{Provider: "newsapi", Backend: "Ollama", Model: "llama3.2:3b", Headlines: true})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"AI News Explorer", "llama3.2:3b", `data-headlines="sports"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}
}

func TestRecoveryHandler(t *testing.T) {
	h := CreateRecoveryHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORSHandler(t *testing.T) {
	h := CreateCORSHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("preflight = %d %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("remote origin allowed")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want pass-through", rec.Code)
	}
}
