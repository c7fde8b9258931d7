// Package sanitizer strips executable and tracking content from untrusted
// HTML while preserving a curated set of safe embeds. Scanning is
// structural (pattern-based) rather than a full DOM parse, which keeps the
// attack surface of the sanitizer itself small and guarantees the contract
// of never throwing: sanitization always returns usable HTML, favoring
// over-removal to fidelity.
package sanitizer

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"pagegate/internal/domain/entity"
)

// removedMarkerPrefix opens the informational comment left where a
// non-whitelisted embed used to be. Marker comments are exempt from the
// final comment strip so sanitization stays idempotent.
const removedMarkerPrefix = "<!-- embedded content removed:"

// sandboxAttr is injected into whitelisted iframes that carry no sandbox
// of their own.
const sandboxAttr = `sandbox="allow-scripts allow-same-origin allow-popups"`

var (
	scriptPattern    = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>|<script\b[^>]*/?>`)
	noscriptPattern  = regexp.MustCompile(`(?is)<noscript\b[^>]*>.*?</noscript\s*>|<noscript\b[^>]*/?>`)
	iframePattern    = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>|<iframe\b[^>]*/?>`)
	objectPattern    = regexp.MustCompile(`(?is)<object\b[^>]*>.*?</object\s*>|<object\b[^>]*/?>`)
	embedPattern     = regexp.MustCompile(`(?is)<embed\b[^>]*/?>`)
	appletPattern    = regexp.MustCompile(`(?is)<applet\b[^>]*>.*?</applet\s*>|<applet\b[^>]*/?>`)
	stylePattern     = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	imgPattern       = regexp.MustCompile(`(?is)<img\b[^>]*/?>`)
	basePattern      = regexp.MustCompile(`(?i)<base\b[^>]*/?>`)
	metaRefreshPat   = regexp.MustCompile(`(?is)<meta\b[^>]*http-equiv\s*=\s*["']?refresh[^>]*>`)
	svgUsePattern    = regexp.MustCompile(`(?is)<use\b[^>]*/?>`)
	formOpenPattern  = regexp.MustCompile(`(?is)<form\b[^>]*>`)
	commentPattern   = regexp.MustCompile(`(?s)<!--.*?-->`)
	srcAttrPattern   = regexp.MustCompile(`(?i)src\s*=\s*("([^"]*)"|'([^']*)'|([^\s>]+))`)
	hrefAttrPattern  = regexp.MustCompile(`(?i)(?:xlink:)?href\s*=\s*("([^"]*)"|'([^']*)'|([^\s>]+))`)
	actionAttrPat    = regexp.MustCompile(`(?i)action\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	sandboxAttrPat   = regexp.MustCompile(`(?i)\bsandbox\s*=`)
	widthOnePattern  = regexp.MustCompile(`(?i)\bwidth\s*=\s*["']?1["'\s>]`)
	heightOnePattern = regexp.MustCompile(`(?i)\bheight\s*=\s*["']?1["'\s>]`)

	// Quoted forms first, then unquoted; the unquoted pattern would
	// otherwise stop at the first space inside a quoted value.
	eventHandlerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)\s+on[a-z]+\s*=\s*"[^"]*"`),
		regexp.MustCompile(`(?is)\s+on[a-z]+\s*=\s*'[^']*'`),
		regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*[^\s>]+`),
	}

	scriptURLPattern = regexp.MustCompile(`(?i)(href|src)\s*=\s*["']?\s*(?:javascript|vbscript)\s*:[^"'\s>]*["']?`)
	dataSrcPattern   = regexp.MustCompile(`(?i)src\s*=\s*["']?\s*data:[^"'\s>]*["']?`)
	dataImagePattern = regexp.MustCompile(`(?i)^data:image/(?:png|jpe?g|gif|webp)[;,]`)
	atImportPattern  = regexp.MustCompile(`(?i)@import\b`)
)

// defaultIframeWhitelist is the fixed set of embed providers whose iframes
// survive sanitization: video, audio, social, productivity, maps, docs.
var defaultIframeWhitelist = []string{
	"youtube.com",
	"youtube-nocookie.com",
	"vimeo.com",
	"dailymotion.com",
	"spotify.com",
	"soundcloud.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"facebook.com",
	"google.com",
	"codepen.io",
	"jsfiddle.net",
	"github.com",
	"figma.com",
}

// Config controls sanitizer behavior beyond the fixed removal rules.
type Config struct {
	// IframeWhitelist lists embed provider domains (matched exactly or as
	// a parent of the iframe src host). Empty uses the built-in list.
	IframeWhitelist []string

	// MaxImages caps the number of <img> tags kept, 0 means unlimited.
	MaxImages int
}

// Sanitizer applies the removal rules. Safe for concurrent use.
type Sanitizer struct {
	whitelist []string
	maxImages int
}

// New creates a Sanitizer with the given configuration.
func New(cfg Config) *Sanitizer {
	whitelist := cfg.IframeWhitelist
	if len(whitelist) == 0 {
		whitelist = defaultIframeWhitelist
	}
	return &Sanitizer{
		whitelist: whitelist,
		maxImages: cfg.MaxImages,
	}
}

// Sanitize strips executable and tracking content from html and returns
// the cleaned document with per-category removal counts. It never fails;
// hostile input degrades to heavily-stripped output, not an error.
func (s *Sanitizer) Sanitize(html string) entity.SanitizeResult {
	var removed entity.RemovedElements

	html = s.stripScripts(html, &removed)
	html = s.filterIframes(html, &removed)
	html = s.stripObjects(html, &removed)
	html = s.stripEventHandlers(html, &removed)
	html = s.neutralizeScriptURLs(html, &removed)
	html = s.filterDataURLs(html, &removed)
	html = s.neutralizeForms(html, &removed)
	html = s.stripImportStyles(html)
	html = s.stripTrackingPixels(html)
	html = s.stripRedirectTags(html)
	html = s.capImages(html)
	html = s.stripExternalSVGUses(html, &removed)
	html = s.stripComments(html)

	return entity.SanitizeResult{
		HTML:             html,
		Removed:          removed,
		HasUnsafeContent: removed.Unsafe(),
	}
}

func (s *Sanitizer) stripScripts(html string, removed *entity.RemovedElements) string {
	html = scriptPattern.ReplaceAllStringFunc(html, func(string) string {
		removed.Scripts++
		return ""
	})
	return noscriptPattern.ReplaceAllStringFunc(html, func(string) string {
		removed.Scripts++
		return ""
	})
}

// filterIframes keeps iframes whose src host matches the embed whitelist,
// injecting a sandbox attribute when the tag carries none. Everything else
// becomes a marker comment naming the removed host.
func (s *Sanitizer) filterIframes(html string, removed *entity.RemovedElements) string {
	return iframePattern.ReplaceAllStringFunc(html, func(tag string) string {
		host := iframeSrcHost(tag)
		if host != "" && s.hostWhitelisted(host) {
			if !sandboxAttrPat.MatchString(tag) {
				tag = strings.Replace(tag, "<iframe", "<iframe "+sandboxAttr, 1)
			}
			return tag
		}

		removed.Iframes++
		if host == "" {
			host = "unknown"
		}
		return fmt.Sprintf("%s %s -->", removedMarkerPrefix, host)
	})
}

// iframeSrcHost extracts the lowercased host of an iframe's src attribute,
// or "" when absent or unparsable.
func iframeSrcHost(tag string) string {
	m := srcAttrPattern.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	src := firstNonEmpty(m[2], m[3], m[4])
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func (s *Sanitizer) hostWhitelisted(host string) bool {
	for _, domain := range s.whitelist {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func (s *Sanitizer) stripObjects(html string, removed *entity.RemovedElements) string {
	for _, p := range []*regexp.Regexp{objectPattern, embedPattern, appletPattern} {
		html = p.ReplaceAllStringFunc(html, func(string) string {
			removed.Objects++
			return ""
		})
	}
	return html
}

func (s *Sanitizer) stripEventHandlers(html string, removed *entity.RemovedElements) string {
	for _, p := range eventHandlerPatterns {
		html = p.ReplaceAllStringFunc(html, func(string) string {
			removed.EventHandlers++
			return ""
		})
	}
	return html
}

func (s *Sanitizer) neutralizeScriptURLs(html string, removed *entity.RemovedElements) string {
	return scriptURLPattern.ReplaceAllStringFunc(html, func(attr string) string {
		removed.DangerousURLs++
		name := "href"
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr)), "src") {
			name = "src"
		}
		return name + `="#"`
	})
}

// filterDataURLs strips data: URLs in src attributes unless they are one
// of the safe image subtypes.
func (s *Sanitizer) filterDataURLs(html string, removed *entity.RemovedElements) string {
	return dataSrcPattern.ReplaceAllStringFunc(html, func(attr string) string {
		_, value, _ := strings.Cut(attr, "=")
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if dataImagePattern.MatchString(value) {
			return attr
		}
		removed.DangerousURLs++
		return `src="#"`
	})
}

// neutralizeForms points every form action at "#" so submission goes
// nowhere. Forms without an action get one; already-neutralized forms are
// left untouched and uncounted.
func (s *Sanitizer) neutralizeForms(html string, removed *entity.RemovedElements) string {
	return formOpenPattern.ReplaceAllStringFunc(html, func(tag string) string {
		if m := actionAttrPat.FindStringSubmatch(tag); m != nil {
			value := strings.Trim(m[1], `"'`)
			if value == "#" {
				return tag
			}
			removed.Forms++
			return actionAttrPat.ReplaceAllString(tag, `action="#"`)
		}
		removed.Forms++
		return strings.Replace(tag, "<form", `<form action="#"`, 1)
	})
}

// stripImportStyles removes <style> blocks containing @import, which can
// pull arbitrary remote CSS into the document.
func (s *Sanitizer) stripImportStyles(html string) string {
	return stylePattern.ReplaceAllStringFunc(html, func(block string) string {
		if atImportPattern.MatchString(block) {
			return ""
		}
		return block
	})
}

// stripTrackingPixels removes 1x1 images.
func (s *Sanitizer) stripTrackingPixels(html string) string {
	return imgPattern.ReplaceAllStringFunc(html, func(tag string) string {
		if widthOnePattern.MatchString(tag) && heightOnePattern.MatchString(tag) {
			return ""
		}
		return tag
	})
}

// stripRedirectTags removes <base> and meta-refresh tags, both of which
// can redirect or rebase the whole document.
func (s *Sanitizer) stripRedirectTags(html string) string {
	html = basePattern.ReplaceAllString(html, "")
	return metaRefreshPat.ReplaceAllString(html, "")
}

// capImages drops <img> tags beyond the configured ceiling.
func (s *Sanitizer) capImages(html string) string {
	if s.maxImages <= 0 {
		return html
	}
	kept := 0
	return imgPattern.ReplaceAllStringFunc(html, func(tag string) string {
		kept++
		if kept > s.maxImages {
			return ""
		}
		return tag
	})
}

// stripExternalSVGUses removes SVG <use> elements referencing anything but
// a local fragment.
func (s *Sanitizer) stripExternalSVGUses(html string, removed *entity.RemovedElements) string {
	return svgUsePattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := hrefAttrPattern.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}
		ref := firstNonEmpty(m[2], m[3], m[4])
		if strings.HasPrefix(ref, "#") {
			return tag
		}
		removed.DangerousURLs++
		return ""
	})
}

// stripComments removes all HTML comments except the sanitizer's own
// removal markers. Stripping runs last so conditional-comment tricks
// cannot smuggle content past earlier rules.
func (s *Sanitizer) stripComments(html string) string {
	return commentPattern.ReplaceAllStringFunc(html, func(comment string) string {
		if strings.HasPrefix(comment, removedMarkerPrefix) {
			return comment
		}
		return ""
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
