// Package entity defines the core domain value objects for the ingestion
// pipeline: fetch outcomes, robots rules, sanitization summaries, and
// quality classifications. All types here are immutable value objects
// produced by one pipeline stage and consumed by the next; none persists
// state beyond a single request.
package entity

// ErrorCode categorizes every failure mode of the ingestion pipeline.
// The code is the only field callers may branch on; messages are for humans.
type ErrorCode string

const (
	// CodeTimeout indicates the request exceeded its per-attempt deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeSizeLimit indicates the response body exceeded the byte ceiling,
	// detected either from the Content-Length header or mid-stream.
	CodeSizeLimit ErrorCode = "SIZE_LIMIT"

	// CodePrivateIP indicates the hostname matched a private, loopback,
	// link-local, or metadata address and was rejected before any dial.
	CodePrivateIP ErrorCode = "PRIVATE_IP"

	// CodeTooManyRedirects indicates the redirect chain exceeded the hop ceiling.
	CodeTooManyRedirects ErrorCode = "TOO_MANY_REDIRECTS"

	// CodeRedirectLoop indicates the redirect chain revisited a URL.
	CodeRedirectLoop ErrorCode = "REDIRECT_LOOP"

	// CodeNetworkError indicates a transport-level connection failure.
	CodeNetworkError ErrorCode = "NETWORK_ERROR"

	// CodeRateLimited indicates a per-client or per-domain quota was exceeded.
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	// CodeRobotsBlocked indicates the site's robots policy disallows the path.
	CodeRobotsBlocked ErrorCode = "ROBOTS_BLOCKED"

	// CodeInvalidURL indicates the URL could not be parsed or uses a
	// disallowed scheme.
	CodeInvalidURL ErrorCode = "INVALID_URL"

	// CodeEncodingError indicates the body could not be decoded to text.
	CodeEncodingError ErrorCode = "ENCODING_ERROR"

	// CodeHTTPError indicates a non-success, non-redirect HTTP status.
	CodeHTTPError ErrorCode = "HTTP_ERROR"
)

// FetchError is a categorized fetch failure. It implements the error
// interface so it can travel through standard error returns, but callers
// are expected to branch on Code, never on the message text.
type FetchError struct {
	Code    ErrorCode
	Message string
}

// Error returns the human-readable form "CODE: message".
func (e *FetchError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// NewFetchError builds a FetchError with the given code and message.
func NewFetchError(code ErrorCode, message string) *FetchError {
	return &FetchError{Code: code, Message: message}
}

// FetchResult is the outcome of one fetch attempt.
//
// Invariant: HTML is non-empty if and only if Success is true.
// RedirectChain lists intermediate URLs in order, excluding the final one.
type FetchResult struct {
	Success       bool
	HTML          string
	FinalURL      string
	RedirectChain []string
	Charset       string
	ContentType   string
	Error         *FetchError
}
