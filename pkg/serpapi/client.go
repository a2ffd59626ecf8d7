// Package serpapi provides a client for the SerpAPI Google Scholar
// engines. Every request is keyed by an API credential; a missing
// credential is a configuration error surfaced before any network I/O.
package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrMissingKey indicates no API credential was supplied. SerpAPI is a
// paid backend; without a key no call can succeed, so construction
// fails fast instead of returning silent empty results.
var ErrMissingKey = eris.New("serpapi: missing API key (set SERPAPI_KEY or serpapi.key)")

// Client defines the SerpAPI Scholar operations.
type Client interface {
	// AuthorProfile fetches one author via the google_scholar_author engine.
	AuthorProfile(ctx context.Context, authorID string) (*AuthorResult, error)
	// SearchProfiles searches profiles via google_scholar_profiles and
	// returns the matched author IDs.
	SearchProfiles(ctx context.Context, query string) ([]string, error)
}

// AuthorResult is the parsed author response.
type AuthorResult struct {
	Author  Author  `json:"author"`
	CitedBy CitedBy `json:"cited_by"`
}

// Author holds the profile header fields.
type Author struct {
	Name         string     `json:"name"`
	Affiliations string     `json:"affiliations"`
	Email        string     `json:"email"`
	Website      string     `json:"website"`
	Thumbnail    string     `json:"thumbnail"`
	Interests    []Interest `json:"interests"`
}

// Interest is one declared research interest.
type Interest struct {
	Title string `json:"title"`
}

// CitedBy holds the citation metrics table.
type CitedBy struct {
	Table []TableRow `json:"table"`
}

// TableRow is one row of the metrics table. The engine returns rows as
// single-key objects ({"citations": {...}}, {"h_index": {...}}, ...);
// only the populated entry is non-nil.
type TableRow struct {
	Citations *RowCounts `json:"citations,omitempty"`
	HIndex    *RowCounts `json:"h_index,omitempty"`
	I10Index  *RowCounts `json:"i10_index,omitempty"`
}

// RowCounts holds the all-time and five-year values of one metric.
type RowCounts struct {
	All   int `json:"all"`
	Since int `json:"since_2019"`
}

// Metric returns the all-time and five-year values for the named row,
// defaulting to zero when the row is absent. This keeps field
// extraction total over the loosely-shaped response.
func (r AuthorResult) Metric(name string) (all, since int) {
	for _, row := range r.CitedBy.Table {
		var counts *RowCounts
		switch name {
		case "citations":
			counts = row.Citations
		case "h_index":
			counts = row.HIndex
		case "i10_index":
			counts = row.I10Index
		}
		if counts != nil {
			return counts.All, counts.Since
		}
	}
	return 0, 0
}

type profilesResult struct {
	Profiles []struct {
		AuthorID string `json:"author_id"`
	} `json:"profiles"`
}

// Option configures the SerpAPI client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithDelay sets the fixed pause before every request.
func WithDelay(d time.Duration) Option {
	return func(c *httpClient) {
		c.delay = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	delay   time.Duration
	http    *http.Client
}

// NewClient creates a new SerpAPI client. It returns ErrMissingKey when
// the credential is empty.
func NewClient(apiKey string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://serpapi.com/search",
		delay:   time.Second,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *httpClient) request(ctx context.Context, params url.Values, out any) error {
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "serpapi: cancelled during delay")
		case <-time.After(c.delay):
		}
	}

	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "serpapi: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "serpapi: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "serpapi: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("serpapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "serpapi: unmarshal response")
	}
	return nil
}

func (c *httpClient) AuthorProfile(ctx context.Context, authorID string) (*AuthorResult, error) {
	params := url.Values{}
	params.Set("engine", "google_scholar_author")
	params.Set("author_id", authorID)
	params.Set("hl", "en")

	var result AuthorResult
	if err := c.request(ctx, params, &result); err != nil {
		return nil, err
	}

	zap.L().Debug("serpapi: author fetched",
		zap.String("author_id", authorID),
		zap.String("name", result.Author.Name),
	)
	return &result, nil
}

func (c *httpClient) SearchProfiles(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("engine", "google_scholar_profiles")
	params.Set("mauthors", query)
	params.Set("hl", "en")

	var result profilesResult
	if err := c.request(ctx, params, &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Profiles))
	for _, p := range result.Profiles {
		if p.AuthorID != "" {
			ids = append(ids, p.AuthorID)
		}
	}
	return ids, nil
}
