package entity

// eventHandlerUnsafeThreshold is the number of stripped on* attributes above
// which a page is flagged as unsafe. A couple of handlers is ordinary sloppy
// markup; a large count suggests deliberately hostile HTML.
const eventHandlerUnsafeThreshold = 3

// RemovedElements counts what the sanitizer stripped from a document,
// broken down by category. The counts exist for observability and testing;
// they never cause a page to be rejected.
type RemovedElements struct {
	Scripts       int `json:"scripts"`
	Iframes       int `json:"iframes"`
	EventHandlers int `json:"event_handlers"`
	DangerousURLs int `json:"dangerous_urls"`
	Forms         int `json:"forms"`
	Objects       int `json:"objects"`
}

// SanitizeResult is the outcome of one sanitization pass. Sanitization
// always succeeds: HTML is usable output even for hostile input, and
// HasUnsafeContent is a signal, not a gate.
type SanitizeResult struct {
	HTML             string
	Removed          RemovedElements
	HasUnsafeContent bool
}

// Unsafe derives the HasUnsafeContent flag from the removal counts:
// any stripped script, dangerous URL, or embedded object marks the page,
// as does an event-handler count above a small threshold.
func (r RemovedElements) Unsafe() bool {
	if r.Scripts > 0 || r.DangerousURLs > 0 || r.Objects > 0 {
		return true
	}
	return r.EventHandlers > eventHandlerUnsafeThreshold
}
