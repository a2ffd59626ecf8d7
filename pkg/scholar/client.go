// Package scholar fetches Google Scholar profile pages directly and
// parses the semi-structured markup. It is the fallback backend for
// when no search-proxy credential is available; calls are spaced by a
// randomized delay and anti-bot challenges abort the current call.
package scholar

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrBlocked indicates an anti-bot challenge (CAPTCHA or rate block).
// The current call is abandoned; the caller must not retry it within
// the same run.
var ErrBlocked = eris.New("scholar: blocked by anti-bot challenge")

// ErrNoData indicates the profile page had no usable author data.
var ErrNoData = eris.New("scholar: no profile data")

// blockMarkers are the challenge signatures scanned for in the body.
var blockMarkers = []string{
	"unusual traffic",
	"captcha",
	"please show you're not a robot",
}

var userRe = regexp.MustCompile(`user=([^&]+)`)

// Profile is a parsed Scholar author profile.
type Profile struct {
	ScholarID   string
	Name        string
	Affiliation string
	EmailDomain string
	Homepage    string
	PictureURL  string
	Interests   []string
	HIndex      int
	HIndex5y    int
	I10Index    int
	I10Index5y  int
	Citations   int
	Citations5y int
}

// Client defines the Scholar scraping operations.
type Client interface {
	// FetchProfile fetches one author profile by its opaque Scholar ID.
	FetchProfile(ctx context.Context, scholarID string) (*Profile, error)
	// SearchProfiles searches author profiles and returns their IDs.
	SearchProfiles(ctx context.Context, query string, max int) ([]string, error)
}

// Option configures the Scholar client.
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

// WithDelayRange sets the [min,max] randomized delay applied before
// every request. A zero range disables the delay (tests).
func WithDelayRange(min, max time.Duration) Option {
	return func(c *httpClient) {
		c.delayMin = min
		c.delayMax = max
	}
}

type httpClient struct {
	baseURL  string
	delayMin time.Duration
	delayMax time.Duration
	http     *http.Client
}

// NewClient creates a new Scholar scraping client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:  "https://scholar.google.com",
		delayMin: 3 * time.Second,
		delayMax: 7 * time.Second,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sleepRandom waits a uniformly random interval in [delayMin, delayMax]
// to reduce block risk, honoring context cancellation.
func (c *httpClient) sleepRandom(ctx context.Context) error {
	if c.delayMax <= 0 {
		return nil
	}
	span := c.delayMax - c.delayMin
	d := c.delayMin
	if span > 0 {
		d += time.Duration(rand.Int64N(int64(span)))
	}
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "scholar: cancelled during delay")
	case <-time.After(d):
		return nil
	}
}

func (c *httpClient) get(ctx context.Context, reqURL string) (*goquery.Document, error) {
	if err := c.sleepRandom(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scholar: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scholar: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
			return nil, ErrBlocked
		}
		return nil, eris.Errorf("scholar: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "scholar: parse html")
	}

	lower := strings.ToLower(doc.Text())
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return nil, ErrBlocked
		}
	}

	return doc, nil
}

func (c *httpClient) FetchProfile(ctx context.Context, scholarID string) (*Profile, error) {
	reqURL := c.baseURL + "/citations?user=" + url.QueryEscape(scholarID) + "&hl=en"
	doc, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	p := parseProfile(doc, scholarID)
	if p.Name == "" {
		return nil, ErrNoData
	}

	zap.L().Debug("scholar: profile fetched",
		zap.String("scholar_id", scholarID),
		zap.String("name", p.Name),
		zap.Int("h_index", p.HIndex),
	)
	return p, nil
}

func (c *httpClient) SearchProfiles(ctx context.Context, query string, max int) ([]string, error) {
	reqURL := c.baseURL + "/citations?hl=en&view_op=search_authors&mauthors=" + url.QueryEscape(query)
	doc, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var ids []string
	doc.Find("div.gsc_1usr a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		m := userRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		id := m[1]
		for _, seen := range ids {
			if seen == id {
				return true
			}
		}
		ids = append(ids, id)
		return max <= 0 || len(ids) < max
	})

	return ids, nil
}

// parseProfile extracts the author fields from a profile page. Missing
// elements yield zero values; a malformed metrics cell is skipped, not
// an error.
func parseProfile(doc *goquery.Document, scholarID string) *Profile {
	p := &Profile{ScholarID: scholarID}

	p.Name = strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text())
	p.Affiliation = strings.TrimSpace(doc.Find("div.gsc_prf_il").First().Text())

	emailText := strings.TrimSpace(doc.Find("#gsc_prf_ivh").First().Text())
	switch {
	case strings.Contains(emailText, "@"):
		p.EmailDomain = strings.TrimSpace(strings.SplitN(emailText, "@", 2)[1])
	case strings.Contains(emailText, "Verified email at"):
		p.EmailDomain = strings.TrimSpace(strings.Replace(emailText, "Verified email at", "", 1))
	}
	// Trailing link labels ("- Homepage") ride along in the same div.
	if i := strings.IndexAny(p.EmailDomain, " -"); i > 0 {
		p.EmailDomain = p.EmailDomain[:i]
	}

	doc.Find("a.gsc_prf_inta").Each(func(_ int, sel *goquery.Selection) {
		if v := strings.TrimSpace(sel.Text()); v != "" {
			p.Interests = append(p.Interests, v)
		}
	})

	if href, ok := doc.Find("a.gsc_prf_ila").First().Attr("href"); ok {
		p.Homepage = href
	}
	if src, ok := doc.Find("#gsc_prf_pup-img").First().Attr("src"); ok {
		p.PictureURL = src
	}

	doc.Find("#gsc_rsb_st tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		all := parseCount(cells.Eq(1).Text())
		since := parseCount(cells.Eq(2).Text())

		switch {
		case strings.Contains(label, "citations"):
			p.Citations, p.Citations5y = all, since
		case strings.Contains(label, "h-index"):
			p.HIndex, p.HIndex5y = all, since
		case strings.Contains(label, "i10-index"):
			p.I10Index, p.I10Index5y = all, since
		}
	})

	return p
}

// parseCount converts a metric cell to a non-negative int, tolerating
// thousands separators and returning 0 for anything unparseable.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
