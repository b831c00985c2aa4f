// Package openlibrary implements lookup.Searcher against the Open Library
// search and books APIs.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/lookup"
)

// DefaultBaseURL is the public Open Library host.
const DefaultBaseURL = "https://openlibrary.org"

// searchLimit caps how many docs a search returns.
const searchLimit = 10

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

var _ lookup.Searcher = (*Client)(nil)

// NewClient returns a client allowing rps requests per second, retrying
// 429 and 5xx responses up to maxRetries times.
func NewClient(baseURL, userAgent string, rps, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: max(maxRetries, 0),
		backoff:    time.Second,
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	EditionKeys      []string `json:"edition_key"`
	Publishers       []string `json:"publisher"`
	FirstPublishYear int      `json:"first_publish_year"`
}

type Publisher struct {
	Name string `json:"name"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Publishers  []Publisher `json:"publishers"`
	PublishDate string      `json:"publish_date"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// SearchBooks runs a free-text search and returns candidates in relevance
// order. Candidate IDs are Open Library bibkeys (ISBN:... or OLID:...).
func (c *Client) SearchBooks(ctx context.Context, keyword string) ([]lookup.Candidate, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=key,title,author_name,isbn,edition_key,publisher,first_publish_year&limit=%d",
		c.baseURL, url.QueryEscape(keyword), searchLimit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	out := make([]lookup.Candidate, 0, len(res.Docs))
	for _, d := range res.Docs {
		if d.Title == "" {
			continue
		}
		out = append(out, lookup.Candidate{
			ID:     bibkey(d),
			Title:  d.Title,
			Author: strings.Join(d.AuthorNames, ", "),
		})
	}
	return out, nil
}

// BookDetails fetches the edition behind a candidate. Candidates without a
// bibkey, or unknown to the books API, fall back to the search fields.
func (c *Client) BookDetails(ctx context.Context, cand lookup.Candidate) (catalog.Book, error) {
	fallback := catalog.Book{Title: cand.Title, Author: cand.Author}
	if cand.ID == "" {
		return fallback, nil
	}

	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(cand.ID))

	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return catalog.Book{}, err
	}
	d, ok := res[cand.ID]
	if !ok {
		return fallback, nil
	}
	return toBook(d, fallback), nil
}

func toBook(d BookDetails, fallback catalog.Book) catalog.Book {
	b := fallback
	if d.Title != "" {
		b.Title = d.Title
		if d.Subtitle != "" {
			b.Title += ": " + d.Subtitle
		}
	}
	if len(d.Authors) > 0 {
		names := make([]string, 0, len(d.Authors))
		for _, a := range d.Authors {
			names = append(names, a.Name)
		}
		b.Author = strings.Join(names, ", ")
	}
	if len(d.Publishers) > 0 {
		b.Publisher = d.Publishers[0].Name
	}
	b.PubDate = d.PublishDate
	return b
}

func bibkey(d SearchDoc) string {
	switch {
	case len(d.ISBN) > 0:
		return "ISBN:" + d.ISBN[0]
	case len(d.EditionKeys) > 0:
		return "OLID:" + d.EditionKeys[0]
	default:
		return ""
	}
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return false, nil
}
