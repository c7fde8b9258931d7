package extractor

import (
	"strings"
	"testing"
)

const articleFixture = `<!DOCTYPE html>
<html>
<head><title>Understanding Redirect Chains</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Understanding Redirect Chains</h1>
<p>HTTP redirects are a fundamental mechanism of the web. When a server
responds with a 3xx status code, the client is expected to retry the
request against the URL named in the Location header.</p>
<p>Chains of redirects can be abused. A malicious or misconfigured server
can bounce a client between two URLs forever, or chain dozens of hops to
waste resources. Well-behaved clients therefore enforce a hop ceiling and
track which URLs they have already visited.</p>
<p>Redirects can also cross security boundaries: a public URL can redirect
into a private address space, which is why validation must run on every
hop rather than only on the initial request.</p>
</article>
<footer>Copyright 2026</footer>
</body>
</html>`

func TestReadabilityExtractor_ExtractsArticle(t *testing.T) {
	e := NewReadabilityExtractor(nil)

	article := e.Extract(articleFixture, "https://example.com/posts/redirects")
	if article == nil {
		t.Fatal("expected extraction to succeed")
	}

	if !strings.Contains(article.Title, "Redirect Chains") {
		t.Errorf("expected title, got %q", article.Title)
	}
	if !strings.Contains(article.TextContent, "hop ceiling") {
		t.Errorf("expected body text to survive extraction")
	}
	if strings.Contains(article.TextContent, "Copyright 2026") {
		t.Log("boilerplate footer survived extraction; acceptable but noisy")
	}
}

func TestReadabilityExtractor_NilOnEmptyDocument(t *testing.T) {
	e := NewReadabilityExtractor(nil)

	if article := e.Extract("<html><body></body></html>", "https://example.com/"); article != nil {
		if article.TextContent != "" && strings.TrimSpace(article.TextContent) != "" {
			t.Errorf("expected nil or empty extraction for empty page, got %+v", article)
		}
	}
}

func TestReadabilityExtractor_BadURLStillWorks(t *testing.T) {
	e := NewReadabilityExtractor(nil)

	article := e.Extract(articleFixture, "://not-a-url")
	if article == nil {
		t.Fatal("expected extraction to work without a resolvable URL")
	}
}
