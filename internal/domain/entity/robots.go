package entity

import "strings"

// RobotsRule holds the path prefixes collected from the single user-agent
// group of a robots.txt judged relevant for this crawler (exact token match
// or the wildcard "*"). A zero-value RobotsRule allows everything, which is
// also the stance for absent or unfetchable robots files.
type RobotsRule struct {
	Allowed    []string `json:"allowed"`
	Disallowed []string `json:"disallowed"`
}

// IsPathAllowed reports whether the given URL path may be crawled.
//
// Semantics are deliberately allow-first: a matching Allow prefix wins over
// any matching Disallow prefix regardless of specificity. An empty Disallow
// list permits everything; a bare "Disallow: /" blocks the whole site.
func (r *RobotsRule) IsPathAllowed(path string) bool {
	if path == "" {
		path = "/"
	}

	for _, prefix := range r.Allowed {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}

	for _, prefix := range r.Disallowed {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return true
}

// IsEmpty reports whether the rule carries no directives at all.
// Empty rules are cached like any other to avoid repeated robots fetches.
func (r *RobotsRule) IsEmpty() bool {
	return len(r.Allowed) == 0 && len(r.Disallowed) == 0
}
