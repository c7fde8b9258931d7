// Package fetcher performs the bounded HTTP retrieval at the heart of the
// ingestion pipeline: manual redirect handling with loop and hop-limit
// detection, per-attempt timeouts, dual size limiting (header pre-check
// plus streaming abort), SSRF validation on every hop, and charset-aware
// decoding of the response body.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"pagegate/internal/domain/entity"
	"pagegate/internal/observability/metrics"
	"pagegate/internal/resilience/circuitbreaker"
)

// readChunkSize is the streaming read granularity. Each chunk read is a
// cancellation point, so a size-limit abort never waits on more than one
// chunk of a hostile stream.
const readChunkSize = 32 * 1024

// Fetcher retrieves a single URL under adversarial assumptions and returns
// a FetchResult. It holds no per-request state and is safe for concurrent
// use.
type Fetcher struct {
	config  Config
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher with the given configuration.
// Redirect following is disabled at the transport level; the fetch loop
// handles every hop itself so each one is re-validated.
func NewFetcher(config Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		config: config,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// WithBreaker routes outbound requests through cb and returns f. Fetchers
// are built per request, so the caller owns the breaker and shares one
// instance across them; trip state then accumulates across requests.
func (f *Fetcher) WithBreaker(cb *circuitbreaker.CircuitBreaker) *Fetcher {
	f.breaker = cb
	return f
}

// Fetch retrieves rawURL, following up to MaxRedirects redirect hops, and
// returns the decoded document or a categorized failure. The result's
// RedirectChain lists the intermediate URLs in order, excluding the final
// one; FinalURL is where the content actually came from.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *entity.FetchResult {
	start := time.Now()
	result := f.fetch(ctx, rawURL)

	outcome := "success"
	var size int64
	if result.Success {
		size = int64(len(result.HTML))
	} else {
		outcome = string(result.Error.Code)
	}
	metrics.RecordFetch(outcome, time.Since(start), size, len(result.RedirectChain))

	return result
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) *entity.FetchResult {
	current := rawURL
	visited := make(map[string]bool)
	var chain []string

	for {
		u, ferr := ValidateURL(current, f.config.DenyPrivateIPs, f.config.ResolveHosts)
		if ferr != nil {
			return failure(ferr, current, chain)
		}

		if visited[current] {
			return failure(entity.NewFetchError(entity.CodeRedirectLoop,
				"redirect chain revisited "+current), current, chain)
		}
		visited[current] = true

		result, redirect := f.attempt(ctx, u, chain)
		if redirect == "" {
			return result
		}

		if !f.config.FollowRedirects {
			return failure(entity.NewFetchError(entity.CodeHTTPError,
				"redirect received with redirect following disabled"), current, chain)
		}

		chain = append(chain, current)
		if len(chain) > f.config.MaxRedirects {
			return failure(entity.NewFetchError(entity.CodeTooManyRedirects,
				fmt.Sprintf("exceeded %d redirect hops", f.config.MaxRedirects)), current, chain)
		}

		f.logger.DebugContext(ctx, "following redirect",
			slog.String("from", current),
			slog.String("to", redirect),
			slog.Int("hop", len(chain)))
		current = redirect
	}
}

// attempt performs one HTTP request against u. It returns either a final
// FetchResult and an empty redirect target, or a nil-ish result and the
// absolute URL of the next hop.
func (f *Fetcher) attempt(ctx context.Context, u *url.URL, chain []string) (*entity.FetchResult, string) {
	hopCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return failure(entity.NewFetchError(entity.CodeInvalidURL, err.Error()), u.String(), chain), ""
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.do(req)
	if err != nil {
		return failure(classifyTransportError(err), u.String(), chain), ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		location := resp.Header.Get("Location")
		if location == "" {
			return failure(entity.NewFetchError(entity.CodeHTTPError,
				fmt.Sprintf("redirect status %d without Location header", resp.StatusCode)), u.String(), chain), ""
		}
		target, err := u.Parse(location)
		if err != nil {
			return failure(entity.NewFetchError(entity.CodeInvalidURL,
				"unresolvable redirect target: "+location), u.String(), chain), ""
		}
		return nil, target.String()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(entity.NewFetchError(entity.CodeHTTPError,
			fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))), u.String(), chain), ""
	}

	contentType := resp.Header.Get("Content-Type")
	limit := f.byteLimit(contentType)

	// Header pre-check: refuse to open a doomed stream.
	if resp.ContentLength > limit {
		return failure(entity.NewFetchError(entity.CodeSizeLimit,
			fmt.Sprintf("declared Content-Length %d exceeds limit %d", resp.ContentLength, limit)), u.String(), chain), ""
	}

	raw, ferr := readBounded(resp.Body, limit)
	if ferr != nil {
		return failure(ferr, u.String(), chain), ""
	}

	decoded := decodeBody(raw, contentType)
	if decoded.LowConfidence {
		f.logger.WarnContext(ctx, "low-confidence charset decode",
			slog.String("url", u.String()),
			slog.String("charset", decoded.Charset))
	}

	return &entity.FetchResult{
		Success:       true,
		HTML:          decoded.Text,
		FinalURL:      u.String(),
		RedirectChain: chain,
		Charset:       decoded.Charset,
		ContentType:   contentType,
	}, ""
}

// do executes one request through the circuit when one is attached.
// Transport failures and 5xx responses count against the circuit; a 5xx
// response is still returned so its status drives the result.
func (f *Fetcher) do(req *http.Request) (*http.Response, error) {
	if f.breaker == nil {
		return f.client.Do(req)
	}

	res, err := f.breaker.Execute(func() (interface{}, error) {
		resp, doErr := f.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode >= 500 {
			return resp, fmt.Errorf("upstream HTTP %d", resp.StatusCode)
		}
		return resp, nil
	})
	if resp, ok := res.(*http.Response); ok {
		return resp, nil
	}
	return nil, err
}

// byteLimit picks the size ceiling for a response: the markup limit for
// anything text-like, the larger binary limit otherwise.
func (f *Fetcher) byteLimit(contentType string) int64 {
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "text/") || strings.Contains(ct, "xhtml") || strings.Contains(ct, "xml") || strings.Contains(ct, "json") {
		return f.config.MaxHTMLBytes
	}
	if ct == "" {
		// No declared type: assume markup and apply the stricter limit.
		return f.config.MaxHTMLBytes
	}
	return f.config.MaxBinaryBytes
}

// readBounded streams the body in chunks, aborting the instant the
// accumulated size crosses limit. This is the hard backstop against
// compression bombs and servers that lie about Content-Length.
func readBounded(body io.Reader, limit int64) ([]byte, *entity.FetchError) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	var total int64

	for {
		n, err := body.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > limit {
				return nil, entity.NewFetchError(entity.CodeSizeLimit,
					fmt.Sprintf("response exceeded %d bytes mid-stream", limit))
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, classifyTransportError(err)
		}
	}
}

// classifyTransportError maps a transport failure to TIMEOUT or
// NETWORK_ERROR so callers can decide whether a retry is sensible.
func classifyTransportError(err error) *entity.FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return entity.NewFetchError(entity.CodeTimeout, "request exceeded deadline")
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return entity.NewFetchError(entity.CodeNetworkError, "page-fetch circuit open: "+err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return entity.NewFetchError(entity.CodeTimeout, err.Error())
	}
	return entity.NewFetchError(entity.CodeNetworkError, err.Error())
}

// failure builds an unsuccessful FetchResult preserving whatever redirect
// chain was walked before the error.
func failure(ferr *entity.FetchError, finalURL string, chain []string) *entity.FetchResult {
	return &entity.FetchResult{
		Success:       false,
		FinalURL:      finalURL,
		RedirectChain: chain,
		Error:         ferr,
	}
}
