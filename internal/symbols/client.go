package symbols

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is the concrete Resolver: a small HTTP client for a gildash
// instance's symbol-search endpoint. It is only constructed by the
// caller that has a base URL configured (§4.7's "symbol indexer
// configured" precondition); an unconfigured deployment simply never
// builds one and passes a nil Resolver through internal/cardops.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL (e.g. "http://localhost:7420").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Symbols []Match `json:"symbols"`
}

// FindSymbols queries gildash's /symbols endpoint for every symbol
// named name, narrowed to file when non-empty. A non-2xx response or a
// malformed body is reported as an error; the caller's validate path
// turns that into a per-link "file-not-indexed" finding.
func (c *Client) FindSymbols(ctx context.Context, name, file string) ([]Match, error) {
	q := url.Values{}
	q.Set("name", name)
	if file != "" {
		q.Set("file", file)
	}

	reqURL := c.baseURL + "/symbols?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build symbol query: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query gildash: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gildash returned status %d for %s", resp.StatusCode, file)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode gildash response: %w", err)
	}
	return parsed.Symbols, nil
}
