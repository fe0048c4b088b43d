package tavily

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amityadav/newsexplorer/internal/search"
)

func TestSearchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Query != "climate" || req.Topic != "news" || req.MaxResults != 5 || req.APIKey != "tvly-key" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"query":"climate","results":[
			{"title":"Glaciers retreat","url":"https://www.reuters.com/a","content":"Ice is melting.","score":0.9,"published_date":"Mon, 06 May 2024 08:00:00 GMT"},
			{"title":"Floods","url":"https://apnews.com/b","content":"Rivers rise.","score":0.8}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-key", srv.URL, 5*time.Second)
	articles, err := c.SearchNews(context.Background(), search.Query{Keyword: "climate", Limit: 5})
	if err != nil {
		t.Fatalf("SearchNews() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles", len(articles))
	}
	if articles[0].SourceName != "reuters.com" || articles[0].Description != "Ice is melting." {
		t.Errorf("first = %+v", articles[0])
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("published date not parsed")
	}
	if articles[1].Provider != "tavily" {
		t.Errorf("provider = %q", articles[1].Provider)
	}
}

func TestSearchNewsErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, search.ErrAuth},
		{http.StatusTooManyRequests, search.ErrRateLimited},
		{432, search.ErrRateLimited},
		{http.StatusBadRequest, search.ErrUpstream},
		{http.StatusInternalServerError, search.ErrNetwork},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"detail":{"error":"nope"}}`))
		}))
		c := NewClient("tvly-key", srv.URL, time.Second)
		_, err := c.SearchNews(context.Background(), search.Query{Keyword: "x"})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
		srv.Close()
	}
}

func TestMissingKey(t *testing.T) {
	c := NewClient("", "http://127.0.0.1:1", time.Second)
	if _, err := c.SearchNews(context.Background(), search.Query{Keyword: "x"}); !errors.Is(err, search.ErrAuth) {
		t.Fatalf("error = %v, want ErrAuth", err)
	}
}
