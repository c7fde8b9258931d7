package fetcher

import (
	"mime"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"pagegate/internal/utils/text"
)

// maxReplacementRatio is the decode-fidelity ceiling: above this fraction of
// replacement characters a decode is considered to have used the wrong
// encoding.
const maxReplacementRatio = 0.05

// charsetAliases maps commonly mislabeled legacy encodings to the encoding
// servers actually use. Turkish sites in particular declare iso-8859-9 while
// serving windows-1254, and "iso-8859-1" on the web has meant windows-1252
// for decades.
var charsetAliases = map[string]string{
	"iso-8859-9": "windows-1254",
	"iso-8859-1": "windows-1252",
	"ascii":      "utf-8",
	"us-ascii":   "utf-8",
}

// metaCharsetPattern matches both <meta charset="..."> and the legacy
// <meta http-equiv="Content-Type" content="text/html; charset=..."> forms.
var metaCharsetPattern = regexp.MustCompile(`(?i)<meta[^>]+charset\s*=\s*["']?\s*([a-zA-Z0-9_][a-zA-Z0-9._-]*)`)

// decodedBody is the outcome of one charset decode.
type decodedBody struct {
	// Text is the decoded document. Always set, even on low confidence.
	Text string

	// Charset is the normalized encoding name actually used.
	Charset string

	// LowConfidence is true when more than maxReplacementRatio of the
	// output is replacement characters even after the fallback attempt.
	// The quality gate folds this into its ENCODING_ISSUES signal rather
	// than failing the fetch.
	LowConfidence bool
}

// decodeBody converts raw response bytes to text. The encoding name comes
// from, in priority order: the Content-Type header's charset parameter,
// then — only if the header carried none — a <meta> charset sniffed from a
// provisional UTF-8 view of the bytes, then UTF-8 as the fallback.
//
// If the primary decode produces more than maxReplacementRatio replacement
// characters it is rejected and decoding is retried with a short fallback
// chain; the best result wins, flagged low-confidence if still above the
// ceiling.
func decodeBody(raw []byte, contentType string) decodedBody {
	name := charsetFromHeader(contentType)
	if name == "" {
		name = charsetFromMeta(raw)
	}
	if name == "" {
		name = "utf-8"
	}
	name = normalizeCharset(name)

	decoded, ratio := decodeAs(raw, name)
	if ratio <= maxReplacementRatio {
		return decodedBody{Text: decoded, Charset: name}
	}

	// Wrong label. Try the usual suspects and keep the cleanest decode.
	best, bestName, bestRatio := decoded, name, ratio
	for _, fallback := range []string{"utf-8", "windows-1254", "windows-1252"} {
		if fallback == name {
			continue
		}
		candidate, candidateRatio := decodeAs(raw, fallback)
		if candidateRatio < bestRatio {
			best, bestName, bestRatio = candidate, fallback, candidateRatio
		}
	}

	return decodedBody{
		Text:          best,
		Charset:       bestName,
		LowConfidence: bestRatio > maxReplacementRatio,
	}
}

// charsetFromHeader extracts the charset parameter from a Content-Type
// header value, or "" if absent.
func charsetFromHeader(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// charsetFromMeta sniffs a <meta> charset declaration from a provisional
// UTF-8 view of the raw bytes. Only the document head matters; scanning is
// capped at the first 4KB.
func charsetFromMeta(raw []byte) string {
	head := raw
	if len(head) > 4096 {
		head = head[:4096]
	}
	m := metaCharsetPattern.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// normalizeCharset lowercases a charset label and maps legacy aliases to
// their modern equivalents.
func normalizeCharset(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := charsetAliases[name]; ok {
		return alias
	}
	return name
}

// decodeAs decodes raw with the named encoding and returns the text plus
// its replacement-character ratio. Unknown names decode as UTF-8.
func decodeAs(raw []byte, name string) (string, float64) {
	decoder := decoderFor(name)
	decoded, err := decoder.Bytes(raw)
	if err != nil {
		// Decoders in replacement mode do not normally error; treat any
		// failure as a fully garbled decode so a fallback can win.
		return string(raw), 1.0
	}
	out := string(decoded)
	return out, text.ReplacementRatio(out)
}

// decoderFor resolves an encoding name to a decoder, defaulting to UTF-8.
func decoderFor(name string) *encoding.Decoder {
	if name == "utf-8" {
		return unicode.UTF8.NewDecoder()
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return unicode.UTF8.NewDecoder()
	}
	return enc.NewDecoder()
}
