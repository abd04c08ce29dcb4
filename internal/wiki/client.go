// internal/wiki/client.go

// Package wiki fetches plain-text article content from the MediaWiki action
// API. It is the document source for the retrieval pipeline: callers hand it
// a topic string and get back normalized article text or ErrNotFound.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mwiater/wikirag/internal/appconfig"
	"github.com/mwiater/wikirag/internal/logging"
)

// ErrNotFound is returned when no usable article exists for a topic.
var ErrNotFound = errors.New("no article found")

const userAgent = "wikirag/1.0 (https://github.com/mwiater/wikirag)"

// Document is one fetched article: its resolved title and normalized text
// (whitespace collapsed to single spaces, no newlines).
type Document struct {
	Title string
	Text  string
}

// Client queries the MediaWiki action API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client from the loaded configuration.
func New(cfg *appconfig.Config) *Client {
	return &Client{
		baseURL:    cfg.WikiBaseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type pageResponse struct {
	Query struct {
		Pages []page `json:"pages"`
	} `json:"query"`
}

type page struct {
	Title     string            `json:"title"`
	Extract   string            `json:"extract"`
	Missing   bool              `json:"missing"`
	PageProps map[string]string `json:"pageprops"`
	Links     []struct {
		Title string `json:"title"`
	} `json:"links"`
}

// FetchTopic resolves a topic to the best-matching article and returns its
// normalized plain text. A topic with no search results, a missing page, or
// an unresolvable disambiguation yields ErrNotFound.
func (c *Client) FetchTopic(ctx context.Context, topic string) (Document, error) {
	title, err := c.search(ctx, topic)
	if err != nil {
		return Document{}, err
	}

	doc, disambiguation, err := c.extract(ctx, title)
	if err != nil {
		return Document{}, err
	}
	if !disambiguation {
		return doc, nil
	}

	// A disambiguation page has no usable prose. Follow its first listed
	// article once; if that is itself unusable, give up.
	logging.LogService("in", "wikipedia", fmt.Sprintf("disambiguation title=%q", title))
	next, err := c.firstLink(ctx, title)
	if err != nil {
		return Document{}, err
	}
	doc, disambiguation, err = c.extract(ctx, next)
	if err != nil {
		return Document{}, err
	}
	if disambiguation {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (c *Client) search(ctx context.Context, topic string) (string, error) {
	params := url.Values{}
	params.Set("list", "search")
	params.Set("srsearch", topic)
	params.Set("srlimit", "1")

	var parsed searchResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Query.Search) == 0 {
		return "", ErrNotFound
	}
	return parsed.Query.Search[0].Title, nil
}

func (c *Client) extract(ctx context.Context, title string) (Document, bool, error) {
	params := url.Values{}
	params.Set("prop", "extracts|pageprops")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var parsed pageResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return Document{}, false, err
	}
	if len(parsed.Query.Pages) == 0 {
		return Document{}, false, ErrNotFound
	}

	pg := parsed.Query.Pages[0]
	if pg.Missing {
		return Document{}, false, ErrNotFound
	}
	if _, ok := pg.PageProps["disambiguation"]; ok {
		return Document{Title: pg.Title}, true, nil
	}

	text := Normalize(pg.Extract)
	if text == "" {
		return Document{}, false, ErrNotFound
	}
	return Document{Title: pg.Title, Text: text}, false, nil
}

func (c *Client) firstLink(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("prop", "links")
	params.Set("plnamespace", "0")
	params.Set("pllimit", "1")
	params.Set("titles", title)

	var parsed pageResponse
	if err := c.get(ctx, params, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Query.Pages) == 0 || len(parsed.Query.Pages[0].Links) == 0 {
		return "", ErrNotFound
	}
	return parsed.Query.Pages[0].Links[0].Title, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create wikipedia request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("wikipedia request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse wikipedia response: %w", err)
	}
	return nil
}

// Normalize collapses all whitespace runs, including newlines, to single
// spaces and trims the result.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
