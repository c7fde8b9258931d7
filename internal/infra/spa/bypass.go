// Package spa short-circuits the full ingestion pipeline for domains known
// to render only via client-side JavaScript. Static HTML from these sites
// is an empty shell, so instead of fetching and classifying it the bypass
// grabs cheap metadata: a structured oEmbed call where the platform offers
// one, else og: meta tags from a short plain fetch, else just the domain.
// The result is always best-effort and always tagged as requiring webview
// display.
package spa

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"pagegate/internal/domain/entity"
	"pagegate/internal/observability/metrics"
	"pagegate/internal/resilience/circuitbreaker"
)

const (
	// scrapeTimeout bounds the fallback meta-tag fetch. Metadata is not
	// worth waiting for; three seconds or nothing.
	scrapeTimeout = 3 * time.Second

	// maxScrapeBytes caps the fallback fetch; og: tags live in <head>.
	maxScrapeBytes = 512 * 1024
)

// defaultDenylist names domains whose content is invisible to a static
// fetch. Matched exactly or as a parent domain.
var defaultDenylist = []string{
	"twitter.com",
	"x.com",
	"instagram.com",
	"facebook.com",
	"tiktok.com",
	"reddit.com",
	"threads.net",
	"linkedin.com",
	"pinterest.com",
}

// defaultOEmbedEndpoints maps denylisted domains to their oEmbed API.
// Domains without an entry go straight to the scrape fallback.
var defaultOEmbedEndpoints = map[string]string{
	"twitter.com": "https://publish.twitter.com/oembed",
	"x.com":       "https://publish.twitter.com/oembed",
	"tiktok.com":  "https://www.tiktok.com/oembed",
	"reddit.com":  "https://www.reddit.com/oembed",
}

// oembedResponse is the subset of the oEmbed payload the bypass uses.
type oembedResponse struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
}

// Config controls the bypass denylist and structured endpoints.
// Zero-value fields fall back to the built-in sets.
type Config struct {
	Denylist        []string
	OEmbedEndpoints map[string]string
	UserAgent       string
}

// Bypass implements the SPA domain short-circuit. Safe for concurrent use.
type Bypass struct {
	denylist  []string
	endpoints map[string]string
	userAgent string
	client    *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	logger    *slog.Logger
}

// New creates a Bypass with the given configuration.
func New(cfg Config, logger *slog.Logger) *Bypass {
	if logger == nil {
		logger = slog.Default()
	}
	denylist := cfg.Denylist
	if len(denylist) == 0 {
		denylist = defaultDenylist
	}
	endpoints := cfg.OEmbedEndpoints
	if len(endpoints) == 0 {
		endpoints = defaultOEmbedEndpoints
	}
	return &Bypass{
		denylist:  denylist,
		endpoints: endpoints,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: scrapeTimeout},
		breaker:   circuitbreaker.New(circuitbreaker.SPAMetadataConfig()),
		logger:    logger,
	}
}

// Match returns the denylist entry covering rawURL's host, or "" when the
// URL should go through the full pipeline. Subdomains match their parent.
func (b *Bypass) Match(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range b.denylist {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return domain
		}
	}
	return ""
}

// Fetch produces best-effort metadata for a denylisted URL. It tries the
// platform's structured oEmbed API first, falls back to scraping og: meta
// tags, and finally to a domain-only title. It never fails: worst case is
// an empty title with the webview tag still set.
func (b *Bypass) Fetch(ctx context.Context, rawURL, domain string) *entity.BypassResult {
	reason := "spa_domain:" + domain

	if endpoint, ok := b.endpoints[domain]; ok {
		if result := b.fetchOEmbed(ctx, endpoint, rawURL); result != nil {
			metrics.RecordSPABypass("structured")
			result.Reason = reason
			return result
		}
	}

	if result := b.scrapeMeta(ctx, rawURL); result != nil {
		metrics.RecordSPABypass("scrape")
		result.Reason = reason
		return result
	}

	metrics.RecordSPABypass("fallback")
	return &entity.BypassResult{
		Title:           domain,
		RequiresWebview: true,
		Reason:          reason,
	}
}

// fetchOEmbed calls the platform's oEmbed API through the circuit breaker.
// Returns nil on any failure so the caller can fall back.
func (b *Bypass) fetchOEmbed(ctx context.Context, endpoint, rawURL string) *entity.BypassResult {
	v, err := b.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			endpoint+"?format=json&url="+url.QueryEscape(rawURL), nil)
		if err != nil {
			return nil, err
		}
		b.setUserAgent(req)

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &url.Error{Op: "oembed", URL: rawURL, Err: errStatus(resp.StatusCode)}
		}

		var payload oembedResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxScrapeBytes)).Decode(&payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
	if err != nil {
		b.logger.DebugContext(ctx, "oembed fetch failed, falling back to scrape",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return nil
	}

	payload := v.(*oembedResponse)
	title := payload.Title
	if title == "" && payload.AuthorName != "" {
		title = payload.AuthorName
	}
	if title == "" && payload.ThumbnailURL == "" {
		return nil
	}

	return &entity.BypassResult{
		Title:           title,
		CoverImage:      payload.ThumbnailURL,
		RequiresWebview: true,
	}
}

// scrapeMeta fetches the page with a short timeout and pulls og:title /
// og:image, falling back to the <title> tag. Returns nil when nothing
// useful was found.
func (b *Bypass) scrapeMeta(ctx context.Context, rawURL string) *entity.BypassResult {
	scrapeCtx, cancel := context.WithTimeout(ctx, scrapeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(scrapeCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil
	}
	b.setUserAgent(req)

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.DebugContext(ctx, "meta scrape failed",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScrapeBytes))
	if err != nil {
		return nil
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(string(body))); err != nil {
		return nil
	}

	title := og.Title
	var cover string
	if len(og.Images) > 0 {
		cover = og.Images[0].URL
	}

	// goquery fallback for pages without og: tags.
	if title == "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body))); err == nil {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}

	if title == "" && cover == "" {
		return nil
	}

	return &entity.BypassResult{
		Title:           title,
		CoverImage:      cover,
		RequiresWebview: true,
	}
}

func (b *Bypass) setUserAgent(req *http.Request) {
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}
}

// errStatus is a minimal error for non-200 oEmbed responses.
type errStatus int

func (e errStatus) Error() string {
	return "unexpected status " + http.StatusText(int(e))
}
