package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchDecodesOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Errorf("engine = %q, want google", got)
		}
		if got := r.URL.Query().Get("q"); got != "quantum computing" {
			t.Errorf("q = %q, want %q", got, "quantum computing")
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[
			{"title":"Quantum 101","link":"https://example.com/q","snippet":"Intro"},
			{"link":"https://example.com/untitled"},
			{"title":"No link at all"}
		]}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "test-key", Client: srv.Client(), BaseURL: srv.URL}
	results, err := s.Search(context.Background(), "quantum computing", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Title != "Quantum 101" || results[0].URL != "https://example.com/q" || results[0].Snippet != "Intro" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Title != "No title" {
		t.Fatalf("missing title should normalize to %q, got %q", "No title", results[1].Title)
	}
	if results[2].URL != "" || results[2].Snippet != "" {
		t.Fatalf("absent url/snippet should stay empty, got %+v", results[2])
	}
}

func TestSearchCapsResultCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results":[
			{"title":"a","link":"https://a"},
			{"title":"b","link":"https://b"},
			{"title":"c","link":"https://c"}
		]}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "k", Client: srv.Client(), BaseURL: srv.URL}
	results, err := s.Search(context.Background(), "x", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected cap at 2 results, got %d", len(results))
	}
}

func TestSearchSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer srv.Close()

	s := Search{ApiKey: "bad", Client: srv.Client(), BaseURL: srv.URL}
	if _, err := s.Search(context.Background(), "x", 5); err == nil {
		t.Fatal("expected error for provider-reported failure")
	}
}

func TestSearchRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := Search{ApiKey: "k", Client: srv.Client(), BaseURL: srv.URL}
	if _, err := s.Search(context.Background(), "x", 5); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
