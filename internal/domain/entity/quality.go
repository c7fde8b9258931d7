package entity

// QualityIssue tags one problem the quality gate detected in a page.
// Issues are not mutually exclusive; a page may accumulate several.
type QualityIssue string

const (
	IssueContentTooShort    QualityIssue = "CONTENT_TOO_SHORT"
	IssueConsentWall        QualityIssue = "CONSENT_WALL"
	IssuePaywall            QualityIssue = "PAYWALL"
	IssueLoginRequired      QualityIssue = "LOGIN_REQUIRED"
	IssueCaptchaDetected    QualityIssue = "CAPTCHA_DETECTED"
	IssueJavaScriptRequired QualityIssue = "JAVASCRIPT_REQUIRED"
	IssueEncodingIssues     QualityIssue = "ENCODING_ISSUES"
	IssueBotBlocked         QualityIssue = "BOT_BLOCKED"
	IssueErrorPage          QualityIssue = "ERROR_PAGE"
	IssueNoContent          QualityIssue = "NO_CONTENT"
)

// Recommendation is the routing decision the quality gate emits for a page.
type Recommendation string

const (
	// RecommendArticle routes to the full reader view: content is healthy.
	RecommendArticle Recommendation = "ARTICLE"

	// RecommendWebview routes to an embedded browser: static extraction is
	// unreliable (walls, captchas, script-only rendering).
	RecommendWebview Recommendation = "WEBVIEW"

	// RecommendMetaOnly routes to a title/image card without body content.
	RecommendMetaOnly Recommendation = "META_ONLY"

	// RecommendRetry suggests the caller try again later. Reserved: no
	// current rule emits it, but it is part of the produced contract.
	RecommendRetry Recommendation = "RETRY"

	// RecommendReject indicates the page is not worth showing at all.
	RecommendReject Recommendation = "REJECT"
)

// DetectedWalls records which access walls were detected, independently.
// A page can trip more than one (for example a consent banner over a paywall).
type DetectedWalls struct {
	Consent bool `json:"consent"`
	Paywall bool `json:"paywall"`
	Login   bool `json:"login"`
	Captcha bool `json:"captcha"`
}

// QualityCheckResult is the quality gate's verdict on one page.
//
// IsValid is true iff Issues is empty. Confidence is clamped to [0,1] and
// estimates how trustworthy the extracted content is; the recommendation
// is derived from issues and confidence by an ordered decision table.
type QualityCheckResult struct {
	IsValid        bool
	Confidence     float64
	Issues         []QualityIssue
	Recommendation Recommendation
	DetectedWalls  DetectedWalls
}

// HasIssue reports whether the result carries the given issue tag.
func (q *QualityCheckResult) HasIssue(issue QualityIssue) bool {
	for _, i := range q.Issues {
		if i == issue {
			return true
		}
	}
	return false
}
