// Package quality classifies decoded, sanitized page content against
// access-wall and content-health heuristics and emits a routing
// recommendation with a quantified confidence. Quality problems are never
// errors: a confusing or walled page still yields a valid result with a
// degraded recommendation, so the caller always has something actionable.
package quality

import (
	"strings"

	"pagegate/internal/domain/entity"
	"pagegate/internal/observability/metrics"
	"pagegate/internal/utils/text"
)

const (
	// noContentCeiling is the text length below which no heuristic is
	// meaningful; such pages short-circuit to WEBVIEW with confidence 0.
	noContentCeiling = 50

	// consentWallCeiling bounds consent detection: a consent interstitial
	// has little text, so keyword matches on a long page are ordinary
	// privacy-policy prose, not a wall.
	consentWallCeiling = 600

	// minContentLength is the threshold below which otherwise-healthy
	// content is flagged CONTENT_TOO_SHORT.
	minContentLength = 300

	// minConsentMatches is how many distinct consent keywords must match.
	minConsentMatches = 2

	paywallThreshold = 0.6
	loginThreshold   = 0.5

	// encodingIssueRatio mirrors the charset decoder's fidelity ceiling.
	encodingIssueRatio = 0.05
)

// confidencepenalty is the fixed weight each issue subtracts from the
// confidence score.
var confidencePenalty = map[entity.QualityIssue]float64{
	entity.IssueNoContent:          0.9,
	entity.IssueErrorPage:          0.9,
	entity.IssueConsentWall:        0.8,
	entity.IssueCaptchaDetected:    0.8,
	entity.IssueJavaScriptRequired: 0.7,
	entity.IssueBotBlocked:         0.7,
	entity.IssuePaywall:            0.6,
	entity.IssueLoginRequired:      0.6,
	entity.IssueEncodingIssues:     0.4,
	entity.IssueContentTooShort:    0.3,
}

// Config carries the keyword lists so operators can extend them without
// recompiling. Zero-value fields fall back to the built-in lists.
type Config struct {
	ConsentKeywords []string
	PaywallKeywords []string
	LoginKeywords   []string
}

// Gate runs the quality heuristics. Safe for concurrent use.
type Gate struct {
	consentKeywords []string
	paywallKeywords []string
	loginKeywords   []string
}

// New creates a Gate with the given configuration.
func New(cfg Config) *Gate {
	g := &Gate{
		consentKeywords: cfg.ConsentKeywords,
		paywallKeywords: cfg.PaywallKeywords,
		loginKeywords:   cfg.LoginKeywords,
	}
	if len(g.consentKeywords) == 0 {
		g.consentKeywords = defaultConsentKeywords
	}
	if len(g.paywallKeywords) == 0 {
		g.paywallKeywords = defaultPaywallKeywords
	}
	if len(g.loginKeywords) == 0 {
		g.loginKeywords = defaultLoginKeywords
	}
	return g
}

// Check classifies a page given its raw HTML and separately extracted
// plain text. strictMode affects only the paywall routing: strict callers
// get META_ONLY instead of WEBVIEW for paywalled pages.
func (g *Gate) Check(html, plainText string, strictMode bool) *entity.QualityCheckResult {
	result := g.check(html, plainText, strictMode)
	metrics.RecordQualityResult(result)
	return result
}

func (g *Gate) check(html, plainText string, strictMode bool) *entity.QualityCheckResult {
	trimmed := strings.TrimSpace(plainText)
	textLen := text.CountRunes(trimmed)
	lowerText := strings.ToLower(trimmed)

	// Below the floor no heuristic is meaningful.
	if textLen < noContentCeiling {
		return &entity.QualityCheckResult{
			IsValid:        false,
			Confidence:     0,
			Issues:         []entity.QualityIssue{entity.IssueNoContent},
			Recommendation: entity.RecommendWebview,
		}
	}

	var issues []entity.QualityIssue
	var walls entity.DetectedWalls

	if textLen < consentWallCeiling && countMatches(lowerText, g.consentKeywords) >= minConsentMatches {
		issues = append(issues, entity.IssueConsentWall)
		walls.Consent = true
	}

	if g.paywallScore(lowerText, html, textLen) > paywallThreshold {
		issues = append(issues, entity.IssuePaywall)
		walls.Paywall = true
	}

	if g.loginScore(lowerText, html) > loginThreshold {
		issues = append(issues, entity.IssueLoginRequired)
		walls.Login = true
	}

	if issue, ok := matchPatternIssue(lowerText, html); ok {
		issues = append(issues, issue)
		if issue == entity.IssueCaptchaDetected {
			walls.Captcha = true
		}
	}

	if textLen < minContentLength && len(issues) == 0 {
		issues = append(issues, entity.IssueContentTooShort)
	}

	if text.ReplacementRatio(trimmed) > encodingIssueRatio {
		issues = append(issues, entity.IssueEncodingIssues)
	}

	confidence := computeConfidence(textLen, issues)

	return &entity.QualityCheckResult{
		IsValid:        len(issues) == 0,
		Confidence:     confidence,
		Issues:         issues,
		Recommendation: recommend(issues, walls, confidence, strictMode),
		DetectedWalls:  walls,
	}
}

// paywallScore accumulates paywall evidence in [0,1]: keyword density,
// shortness, and structural markup hints.
func (g *Gate) paywallScore(lowerText, html string, textLen int) float64 {
	matches := countMatches(lowerText, g.paywallKeywords)

	score := 0.15 * float64(matches)
	if score > 0.6 {
		score = 0.6
	}

	if textLen < minContentLength && matches > 0 {
		score += 0.3
	}

	if paywallMarkupHint.MatchString(html) {
		score += 0.2
	}
	if paywallCSSHint.MatchString(html) {
		score += 0.3
	}

	if score > 1 {
		score = 1
	}
	return score
}

// loginScore accumulates login-wall evidence in [0,1].
func (g *Gate) loginScore(lowerText, html string) float64 {
	matches := countMatches(lowerText, g.loginKeywords)

	score := 0.15 * float64(matches)
	if score > 0.45 {
		score = 0.45
	}

	if passwordInputHint.MatchString(html) {
		score += 0.3
	}
	if loginFormHint.MatchString(html) {
		score += 0.2
	}
	if oauthButtonHint.MatchString(html) {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}

// matchPatternIssue scans text and HTML against the pattern categories in
// priority order. At most one pattern issue fires per check.
func matchPatternIssue(lowerText, html string) (entity.QualityIssue, bool) {
	categories := []struct {
		pattern interface{ MatchString(string) bool }
		issue   entity.QualityIssue
	}{
		{captchaPattern, entity.IssueCaptchaDetected},
		{jsRequiredPattern, entity.IssueJavaScriptRequired},
		{botBlockedPattern, entity.IssueBotBlocked},
		{errorPagePattern, entity.IssueErrorPage},
	}

	for _, c := range categories {
		if c.pattern.MatchString(lowerText) || c.pattern.MatchString(html) {
			return c.issue, true
		}
	}
	return "", false
}

// computeConfidence starts at 1.0, deducts a band penalty for short
// content, then the fixed per-issue weights, clamped to [0,1].
func computeConfidence(textLen int, issues []entity.QualityIssue) float64 {
	confidence := 1.0

	switch {
	case textLen < minContentLength:
		confidence -= 0.2
	case textLen < consentWallCeiling:
		confidence -= 0.1
	}

	for _, issue := range issues {
		confidence -= confidencePenalty[issue]
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

// recommend is the priority-ordered decision table mapping issues to a
// routing recommendation. First match wins; order is load-bearing.
func recommend(issues []entity.QualityIssue, walls entity.DetectedWalls, confidence float64, strictMode bool) entity.Recommendation {
	has := func(issue entity.QualityIssue) bool {
		for _, i := range issues {
			if i == issue {
				return true
			}
		}
		return false
	}

	switch {
	case has(entity.IssueErrorPage):
		return entity.RecommendReject
	case has(entity.IssueNoContent), has(entity.IssueCaptchaDetected):
		return entity.RecommendWebview
	case walls.Consent, walls.Login:
		return entity.RecommendWebview
	case walls.Paywall:
		if strictMode {
			return entity.RecommendMetaOnly
		}
		return entity.RecommendWebview
	case has(entity.IssueBotBlocked), has(entity.IssueJavaScriptRequired):
		return entity.RecommendWebview
	case has(entity.IssueEncodingIssues):
		return entity.RecommendWebview
	case has(entity.IssueContentTooShort):
		if confidence > 0.5 {
			return entity.RecommendMetaOnly
		}
		return entity.RecommendWebview
	case confidence >= 0.7:
		return entity.RecommendArticle
	case confidence >= 0.4:
		return entity.RecommendMetaOnly
	default:
		return entity.RecommendWebview
	}
}

// countMatches counts how many distinct keywords occur in lowerText.
func countMatches(lowerText string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(lowerText, keyword) {
			count++
		}
	}
	return count
}
