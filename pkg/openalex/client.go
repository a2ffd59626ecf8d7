// Package openalex provides a client for the OpenAlex authors API.
//
// OpenAlex is a free bibliometric API with cursor pagination: every
// response carries a meta.next_cursor token, and iteration starts from
// the sentinel cursor "*". No authentication is required, but a mailto
// parameter is sent as a courtesy identifier.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CursorStart is the sentinel value for the first page of a listing.
const CursorStart = "*"

// maxPerPage is the API ceiling for the per_page parameter.
const maxPerPage = 200

// Client defines the OpenAlex operations used by the pipeline.
type Client interface {
	// AuthorsPage fetches a single page of authors for the given filter
	// and cursor. It retries a transport failure once after a fixed
	// backoff before giving up on the page.
	AuthorsPage(ctx context.Context, filter Filter, cursor string) (*AuthorsResponse, error)

	// ForEachAuthor iterates all pages for the filter, invoking fn for
	// every author. Iteration stops when a page comes back empty, the
	// cursor is exhausted, or a page fails even after its retry; in the
	// failure case the authors already seen are kept and the error is
	// returned so the caller can decide whether partial data suffices.
	ForEachAuthor(ctx context.Context, filter Filter, fn func(Author) error) error
}

// Filter describes an authors listing. Exactly the combinations the
// API contract supports: country plus minimum h-index, topic IDs plus
// country, or an institution-name substring search.
type Filter struct {
	Country           string
	MinHIndex         int
	TopicIDs          []string
	InstitutionSearch string
	Sort              string
}

// Expr renders the filter expression for the request.
func (f Filter) Expr() string {
	var parts []string
	if f.InstitutionSearch != "" {
		parts = append(parts, "affiliations.institution.display_name.search:"+f.InstitutionSearch)
	}
	if f.Country != "" && f.InstitutionSearch == "" {
		parts = append(parts, "last_known_institutions.country_code:"+strings.ToLower(f.Country))
	}
	if len(f.TopicIDs) > 0 {
		parts = append(parts, "topics.id:"+strings.Join(f.TopicIDs, "|"))
	}
	if f.MinHIndex > 0 {
		parts = append(parts, fmt.Sprintf("summary_stats.h_index:>%d", f.MinHIndex-1))
	}
	return strings.Join(parts, ",")
}

// AuthorsResponse is the parsed authors listing page.
type AuthorsResponse struct {
	Results []Author `json:"results"`
	Meta    Meta     `json:"meta"`
}

// Meta carries pagination state.
type Meta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

// Author is one author record as returned by the API. Optional fields
// decode to their zero values; SummaryStats and nested objects are
// value types so missing JSON never produces a nil dereference.
type Author struct {
	ID           string        `json:"id"`
	ORCID        string        `json:"orcid"`
	DisplayName  string        `json:"display_name"`
	CitedByCount int           `json:"cited_by_count"`
	WorksCount   int           `json:"works_count"`
	SummaryStats SummaryStats  `json:"summary_stats"`
	Institutions []Institution `json:"last_known_institutions"`
	Topics       []Topic       `json:"topics"`
}

// SummaryStats holds the author-level citation metrics.
type SummaryStats struct {
	HIndex        int     `json:"h_index"`
	I10Index      int     `json:"i10_index"`
	TwoYrCitWorks float64 `json:"2yr_mean_citedness"`
}

// Institution is one affiliation entry.
type Institution struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
	ROR         string `json:"ror"`
}

// Topic is one research topic with its field and domain labels.
type Topic struct {
	DisplayName string `json:"display_name"`
	Field       Named  `json:"field"`
	Domain      Named  `json:"domain"`
}

// Named is a display-name-only nested object.
type Named struct {
	DisplayName string `json:"display_name"`
}

// ShortID strips the https://openalex.org/ prefix from an entity ID.
func ShortID(id string) string {
	return strings.TrimPrefix(id, "https://openalex.org/")
}

// ShortORCID strips the https://orcid.org/ prefix from an ORCID.
func ShortORCID(orcid string) string {
	return strings.TrimPrefix(orcid, "https://orcid.org/")
}

// Option configures the OpenAlex client.
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

// WithPerPage sets the page size, clamped to the API maximum of 200.
func WithPerPage(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithPageDelay sets the courtesy delay between page requests.
func WithPageDelay(d time.Duration) Option {
	return func(c *httpClient) {
		c.pageDelay = d
	}
}

// WithRetryBackoff sets the fixed wait before the single per-page retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *httpClient) {
		c.retryBackoff = d
	}
}

type httpClient struct {
	baseURL      string
	mailto       string
	perPage      int
	pageDelay    time.Duration
	retryBackoff time.Duration
	http         *http.Client
}

// NewClient creates a new OpenAlex client. The mailto address is sent
// with every request per the API's fair-use guidance.
func NewClient(mailto string, opts ...Option) Client {
	c := &httpClient{
		baseURL:      "https://api.openalex.org",
		mailto:       mailto,
		perPage:      maxPerPage,
		pageDelay:    100 * time.Millisecond,
		retryBackoff: 2 * time.Second,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.perPage > maxPerPage {
		c.perPage = maxPerPage
	}
	return c
}

func (c *httpClient) AuthorsPage(ctx context.Context, filter Filter, cursor string) (*AuthorsResponse, error) {
	page, err := c.fetchPage(ctx, filter, cursor)
	if err == nil {
		return page, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	// One retry after a fixed backoff, then the page is abandoned.
	zap.L().Warn("openalex: page fetch failed, retrying once",
		zap.String("cursor", cursor),
		zap.Error(err),
	)
	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "openalex: cancelled during backoff")
	case <-time.After(c.retryBackoff):
	}
	return c.fetchPage(ctx, filter, cursor)
}

func (c *httpClient) ForEachAuthor(ctx context.Context, filter Filter, fn func(Author) error) error {
	limiter := rate.NewLimiter(rate.Every(c.pageDelay), 1)
	cursor := CursorStart

	for cursor != "" {
		if err := limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "openalex: cancelled waiting for page slot")
		}

		page, err := c.AuthorsPage(ctx, filter, cursor)
		if err != nil {
			// Partial results already delivered through fn are kept.
			return eris.Wrap(err, "openalex: page abandoned after retry")
		}

		if len(page.Results) == 0 {
			return nil
		}

		for _, author := range page.Results {
			if err := fn(author); err != nil {
				return err
			}
		}

		cursor = page.Meta.NextCursor
	}

	return nil
}

func (c *httpClient) fetchPage(ctx context.Context, filter Filter, cursor string) (*AuthorsResponse, error) {
	q := url.Values{}
	q.Set("filter", filter.Expr())
	q.Set("per_page", fmt.Sprintf("%d", c.perPage))
	q.Set("cursor", cursor)
	if c.mailto != "" {
		q.Set("mailto", c.mailto)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	reqURL := c.baseURL + "/authors?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openalex: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openalex: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result AuthorsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "openalex: unmarshal response")
	}

	return &result, nil
}
