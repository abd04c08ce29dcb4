package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/wikirag/internal/appconfig"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := appconfig.Defaults()
	cfg.WikiBaseURL = server.URL
	return New(&cfg)
}

func TestFetchTopicNormalizesWhitespace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("list") {
		case "search":
			w.Write([]byte(`{"query":{"search":[{"title":"Gopher"}]}}`))
		default:
			w.Write([]byte(`{"query":{"pages":[{"title":"Gopher","extract":"Gophers are\n\nburrowing   rodents.\nThey dig."}]}}`))
		}
	})

	doc, err := client.FetchTopic(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("FetchTopic returned error: %v", err)
	}
	if doc.Title != "Gopher" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if doc.Text != "Gophers are burrowing rodents. They dig." {
		t.Fatalf("unexpected normalized text %q", doc.Text)
	}
}

func TestFetchTopicNoSearchResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":{"search":[]}}`))
	})

	if _, err := client.FetchTopic(context.Background(), "xyzzy"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchTopicMissingPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("list") == "search" {
			w.Write([]byte(`{"query":{"search":[{"title":"Ghost"}]}}`))
			return
		}
		w.Write([]byte(`{"query":{"pages":[{"title":"Ghost","missing":true}]}}`))
	})

	if _, err := client.FetchTopic(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchTopicFollowsDisambiguation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("list") == "search":
			w.Write([]byte(`{"query":{"search":[{"title":"Mercury"}]}}`))
		case q.Get("prop") == "links":
			w.Write([]byte(`{"query":{"pages":[{"title":"Mercury","links":[{"title":"Mercury (planet)"}]}]}}`))
		case q.Get("titles") == "Mercury":
			w.Write([]byte(`{"query":{"pages":[{"title":"Mercury","pageprops":{"disambiguation":""}}]}}`))
		default:
			w.Write([]byte(`{"query":{"pages":[{"title":"Mercury (planet)","extract":"Mercury is the smallest planet."}]}}`))
		}
	})

	doc, err := client.FetchTopic(context.Background(), "mercury")
	if err != nil {
		t.Fatalf("FetchTopic returned error: %v", err)
	}
	if doc.Title != "Mercury (planet)" {
		t.Fatalf("expected disambiguation to resolve to first link, got %q", doc.Title)
	}
}

func TestFetchTopicDisambiguationWithoutLinks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("list") == "search":
			w.Write([]byte(`{"query":{"search":[{"title":"Mercury"}]}}`))
		case q.Get("prop") == "links":
			w.Write([]byte(`{"query":{"pages":[{"title":"Mercury"}]}}`))
		default:
			w.Write([]byte(`{"query":{"pages":[{"title":"Mercury","pageprops":{"disambiguation":""}}]}}`))
		}
	})

	if _, err := client.FetchTopic(context.Background(), "mercury"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchTopicServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	_, err := client.FetchTopic(context.Background(), "anything")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  a\n\nb\t c  "); got != "a b c" {
		t.Fatalf("unexpected normalization %q", got)
	}
	if got := Normalize("\n \t"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
