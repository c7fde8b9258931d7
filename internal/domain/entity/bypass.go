package entity

// BypassResult is the best-effort outcome of the SPA domain bypass: a cheap
// metadata-only substitute for pages that only render client-side. Title
// and CoverImage may be empty when even the fallback scrape found nothing.
// RequiresWebview is always true for bypassed domains, and Reason carries a
// machine-readable explanation for the routing.
type BypassResult struct {
	Title           string `json:"title"`
	CoverImage      string `json:"cover_image"`
	RequiresWebview bool   `json:"requires_webview"`
	Reason          string `json:"reason"`
}
