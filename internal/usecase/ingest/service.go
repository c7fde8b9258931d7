package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"pagegate/internal/domain/entity"
	"pagegate/internal/observability/logging"
	"pagegate/internal/observability/metrics"
	"pagegate/internal/observability/tracing"
)

// Options is the per-request configuration record for FetchAndClassify.
// Unset fields mean "use the default": zero for the numeric fields, nil
// for the boolean ones, so a partially filled literal still gets robots
// compliance and redirect following. DefaultOptions returns the defaults
// spelled out.
type Options struct {
	// TimeoutMs is the per-attempt fetch timeout in milliseconds. Default: 10000
	TimeoutMs int

	// MaxBytes is the markup byte ceiling. Binary content keeps its own
	// (larger) configured ceiling. Default: 5MB
	MaxBytes int64

	// FollowRedirects controls whether 3xx responses are chased. Nil means
	// the default: true. Set with Bool to disable.
	FollowRedirects *bool

	// CheckRobots controls robots.txt compliance. Nil means the default:
	// true. Set with Bool to disable.
	CheckRobots *bool

	// UserAgent overrides the configured identification string.
	UserAgent string

	// StrictMode routes paywalled pages to META_ONLY instead of WEBVIEW.
	StrictMode bool
}

// Bool returns a pointer to v, for setting the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

// DefaultOptions returns the recognized option defaults.
func DefaultOptions() Options {
	return Options{
		TimeoutMs:       10000,
		MaxBytes:        5 * 1024 * 1024,
		FollowRedirects: Bool(true),
		CheckRobots:     Bool(true),
	}
}

// withDefaults fills every unset field so downstream stages never see a
// partially specified request.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.TimeoutMs == 0 {
		o.TimeoutMs = defaults.TimeoutMs
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = defaults.MaxBytes
	}
	if o.FollowRedirects == nil {
		o.FollowRedirects = defaults.FollowRedirects
	}
	if o.CheckRobots == nil {
		o.CheckRobots = defaults.CheckRobots
	}
	return o
}

// Validate checks option correctness.
func (o Options) Validate() error {
	if o.TimeoutMs < 0 {
		return fmt.Errorf("%w: timeout_ms must not be negative", ErrInvalidOptions)
	}
	if o.MaxBytes < 0 {
		return fmt.Errorf("%w: max_bytes must not be negative", ErrInvalidOptions)
	}
	return nil
}

// ExtractedArticle is the output contract of the external article
// extractor: boilerplate-free content for one page, or nothing.
type ExtractedArticle struct {
	Title       string
	ContentHTML string
	TextContent string
	Excerpt     string
}

// URLValidator rejects URLs the pipeline must never dial.
type URLValidator interface {
	Validate(rawURL string) (*url.URL, *entity.FetchError)
}

// RateLimiter enforces per-client and per-domain fetch budgets.
type RateLimiter interface {
	Allow(ctx context.Context, clientID, domain string) *entity.FetchError
}

// RobotsChecker answers whether a site's robots policy permits a URL.
type RobotsChecker interface {
	IsAllowed(ctx context.Context, u *url.URL) bool
}

// PageFetcher retrieves and decodes one page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) *entity.FetchResult
}

// FetcherFactory builds a PageFetcher honoring the per-request options.
type FetcherFactory func(opts Options) PageFetcher

// Extractor is the external boilerplate-removal collaborator. A nil
// result means extraction failed; the pipeline then classifies the raw
// markup with no plain text.
type Extractor interface {
	Extract(html, pageURL string) *ExtractedArticle
}

// Sanitizer strips dangerous markup; it never fails.
type Sanitizer interface {
	Sanitize(html string) entity.SanitizeResult
}

// QualityChecker classifies a page and emits a routing recommendation.
type QualityChecker interface {
	Check(html, plainText string, strictMode bool) *entity.QualityCheckResult
}

// Bypasser short-circuits the pipeline for script-only domains.
type Bypasser interface {
	Match(rawURL string) string
	Fetch(ctx context.Context, rawURL, domain string) *entity.BypassResult
}

// ResultSink persists finished records in the background.
type ResultSink interface {
	Write(record *entity.IngestRecord)
}

// Result is the outcome of one FetchAndClassify invocation. Exactly one
// of two shapes comes back: a Bypass result for denylisted SPA domains
// (all other fields nil), or a Fetch result with Sanitize and Quality
// populated when the fetch succeeded.
type Result struct {
	IngestID string
	Bypass   *entity.BypassResult
	Fetch    *entity.FetchResult
	Article  *ExtractedArticle
	Sanitize *entity.SanitizeResult
	Quality  *entity.QualityCheckResult
}

// Service orchestrates the ingestion pipeline. Each invocation is an
// independent short-lived execution; all cross-request coordination lives
// in the shared key-value store behind the collaborators.
type Service struct {
	Validator  URLValidator
	Limiter    RateLimiter
	Robots     RobotsChecker
	NewFetcher FetcherFactory
	Extractor  Extractor
	Sanitizer  Sanitizer
	Quality    QualityChecker
	Bypass     Bypasser
	Sink       ResultSink
	Logger     *slog.Logger
}

// NewService creates an ingest Service with the provided collaborators.
//
// Parameters:
//   - validator: URL safety checks (scheme, private addresses)
//   - limiter: per-client and per-domain fetch budgets
//   - robots: robots.txt compliance resolver
//   - newFetcher: factory building a fetcher for the request options
//   - extractor: external boilerplate-removal collaborator
//   - sanitizer: HTML sanitization
//   - quality: content quality classification
//   - bypass: SPA domain short-circuit (can be nil to disable)
//   - sink: background result persistence (can be nil to disable)
//   - logger: structured logger
//
// Returns:
//   - Service: configured ingest service ready to use
func NewService(
	validator URLValidator,
	limiter RateLimiter,
	robots RobotsChecker,
	newFetcher FetcherFactory,
	extractor Extractor,
	sanitizer Sanitizer,
	quality QualityChecker,
	bypass Bypasser,
	sink ResultSink,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		Validator:  validator,
		Limiter:    limiter,
		Robots:     robots,
		NewFetcher: newFetcher,
		Extractor:  extractor,
		Sanitizer:  sanitizer,
		Quality:    quality,
		Bypass:     bypass,
		Sink:       sink,
		Logger:     logger,
	}
}

// FetchAndClassify runs the full pipeline for one URL: SPA bypass check,
// URL validation, rate limiting, robots compliance, bounded fetch,
// extraction, sanitization, and quality classification. Fetch-stage
// failures are not errors: they come back inside Result.Fetch with a
// categorized code for the caller to branch on. The returned error is
// reserved for caller mistakes (empty URL, empty client id, bad options).
func (s *Service) FetchAndClassify(ctx context.Context, rawURL string, opts Options, clientID string) (*Result, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	if clientID == "" {
		return nil, ErrEmptyClientID
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	ingestID := uuid.NewString()
	logger := logging.WithIngestID(s.Logger, ingestID)

	ctx, span := tracing.StartStage(ctx, "ingest", rawURL)
	defer span.End()

	if s.Bypass != nil {
		if domain := s.Bypass.Match(rawURL); domain != "" {
			logger.InfoContext(ctx, "spa domain bypass",
				slog.String("url", rawURL),
				slog.String("domain", domain))
			result := &Result{
				IngestID: ingestID,
				Bypass:   s.Bypass.Fetch(ctx, rawURL, domain),
			}
			s.record(rawURL, result)
			return result, nil
		}
	}

	u, ferr := s.Validator.Validate(rawURL)
	if ferr != nil {
		return s.failed(ctx, logger, ingestID, rawURL, ferr), nil
	}

	if ferr := s.Limiter.Allow(ctx, clientID, u.Hostname()); ferr != nil {
		return s.failed(ctx, logger, ingestID, rawURL, ferr), nil
	}

	if *opts.CheckRobots && !s.Robots.IsAllowed(ctx, u) {
		ferr := entity.NewFetchError(entity.CodeRobotsBlocked, "disallowed by robots.txt: "+u.Path)
		return s.failed(ctx, logger, ingestID, rawURL, ferr), nil
	}

	fetchCtx, fetchSpan := tracing.StartStage(ctx, "fetch", rawURL)
	fetched := s.NewFetcher(opts).Fetch(fetchCtx, rawURL)
	fetchSpan.End()

	result := &Result{IngestID: ingestID, Fetch: fetched}
	if !fetched.Success {
		logger.WarnContext(ctx, "fetch failed",
			slog.String("url", rawURL),
			slog.String("code", string(fetched.Error.Code)),
			slog.String("error", fetched.Error.Message))
		return result, nil
	}

	result.Article = s.Extractor.Extract(fetched.HTML, fetched.FinalURL)

	sanitized := s.Sanitizer.Sanitize(fetched.HTML)
	result.Sanitize = &sanitized
	metrics.RecordSanitization(sanitized.Removed)

	var plainText string
	if result.Article != nil {
		plainText = result.Article.TextContent
	}
	// The gate scans for structural wall hints (paywall vendor scripts,
	// noscript notices) that sanitization strips, so it reads the raw
	// markup; the sanitized output is what goes back to the caller.
	result.Quality = s.Quality.Check(fetched.HTML, plainText, opts.StrictMode)

	logger.InfoContext(ctx, "page classified",
		slog.String("url", rawURL),
		slog.String("final_url", fetched.FinalURL),
		slog.String("recommendation", string(result.Quality.Recommendation)),
		slog.Float64("confidence", result.Quality.Confidence),
		slog.Int("redirects", len(fetched.RedirectChain)),
		slog.Bool("unsafe_content", sanitized.HasUnsafeContent))

	s.record(rawURL, result)
	return result, nil
}

// record hands the finished result to the sink, translating it into the
// exact record shape the external result cache expects.
func (s *Service) record(rawURL string, result *Result) {
	if s.Sink == nil {
		return
	}

	record := &entity.IngestRecord{
		URLHash:   entity.URLHash(rawURL),
		FinalURL:  rawURL,
		FetchedAt: time.Now().UTC(),
	}

	switch {
	case result.Bypass != nil:
		record.Recommendation = entity.RecommendWebview
		record.Title = result.Bypass.Title
	case result.Quality != nil:
		record.Recommendation = result.Quality.Recommendation
		record.Confidence = result.Quality.Confidence
		if result.Fetch != nil {
			record.FinalURL = result.Fetch.FinalURL
		}
		if result.Article != nil {
			record.Title = result.Article.Title
			record.Excerpt = result.Article.Excerpt
		}
	default:
		// Fetch-stage failure: nothing worth caching.
		return
	}

	s.Sink.Write(record)
}

// failed wraps a pre-fetch rejection in the result shape, so callers see
// one contract regardless of which stage stopped the request.
func (s *Service) failed(ctx context.Context, logger *slog.Logger, ingestID, rawURL string, ferr *entity.FetchError) *Result {
	logger.WarnContext(ctx, "request rejected before fetch",
		slog.String("url", rawURL),
		slog.String("code", string(ferr.Code)),
		slog.String("error", ferr.Message))
	return &Result{
		IngestID: ingestID,
		Fetch: &entity.FetchResult{
			Success:  false,
			FinalURL: rawURL,
			Error:    ferr,
		},
	}
}
