// Package extractor adapts a boilerplate-removal algorithm to the article
// extraction contract the ingestion pipeline consumes: given decoded HTML
// and the URL it came from, produce title, cleaned content HTML, plain
// text, and an excerpt, or nil when no article could be extracted.
package extractor

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Article is the extraction output contract. A nil *Article means the page
// had no extractable article content; that is an ordinary outcome, not an
// error.
type Article struct {
	Title       string
	ContentHTML string
	TextContent string
	Excerpt     string
}

// ReadabilityExtractor extracts articles using the Mozilla Readability
// algorithm via go-shiori/go-readability. Safe for concurrent use.
type ReadabilityExtractor struct {
	logger *slog.Logger
}

// NewReadabilityExtractor creates a ReadabilityExtractor.
func NewReadabilityExtractor(logger *slog.Logger) *ReadabilityExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadabilityExtractor{logger: logger}
}

// Extract runs boilerplate removal over html, resolving relative links
// against pageURL. Returns nil when the algorithm fails or finds nothing.
func (e *ReadabilityExtractor) Extract(html, pageURL string) *Article {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = nil // readability can work without a URL
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		e.logger.Debug("readability extraction failed",
			slog.String("url", pageURL),
			slog.Any("error", err))
		return nil
	}

	if article.TextContent == "" && article.Content == "" {
		return nil
	}

	return &Article{
		Title:       article.Title,
		ContentHTML: article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
	}
}
