package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// IngestRecord is the exact record shape the external result cache expects:
// the final routing decision and extracted fields for one URL, keyed by a
// content hash of the normalized URL. The pipeline produces these records
// but never reads them back; persistence is the caller's concern.
type IngestRecord struct {
	URLHash        string         `json:"url_hash"`
	FinalURL       string         `json:"final_url"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Title          string         `json:"title"`
	Excerpt        string         `json:"excerpt"`
	FetchedAt      time.Time      `json:"fetched_at"`
}

// URLHash returns the cache key for a URL: the hex SHA-256 of its
// normalized form. Normalization lowercases the scheme and host and drops
// the fragment, so trivially different spellings share one cache entry.
func URLHash(rawURL string) string {
	normalized := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		normalized = u.String()
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
