package quality

import (
	"strings"
	"testing"

	"pagegate/internal/domain/entity"
)

// healthyText builds clean article prose of roughly n runes with no wall
// keywords in it.
func healthyText(n int) string {
	sentence := "The river carried the boats downstream past the old mill, and the travelers watched the banks slide by in the afternoon light. "
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(sentence)
	}
	return b.String()
}

func TestCheck_NoContent(t *testing.T) {
	g := New(Config{})

	result := g.Check("<html></html>", "too short", false)

	if result.IsValid {
		t.Error("expected invalid result")
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %f", result.Confidence)
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
	if !result.HasIssue(entity.IssueNoContent) {
		t.Error("expected NO_CONTENT issue")
	}
}

func TestCheck_HealthyArticle(t *testing.T) {
	g := New(Config{})

	body := healthyText(2000)
	result := g.Check("<html><body><p>"+body+"</p></body></html>", body, false)

	if !result.IsValid {
		t.Fatalf("expected valid, got issues %v", result.Issues)
	}
	if result.Confidence < 0.7 {
		t.Errorf("expected confidence >= 0.7, got %f", result.Confidence)
	}
	if result.Recommendation != entity.RecommendArticle {
		t.Errorf("expected ARTICLE, got %s", result.Recommendation)
	}
}

func TestCheck_ConsentWall(t *testing.T) {
	g := New(Config{})

	// Short page with two distinct consent keywords.
	text := "We value your privacy. Please accept all cookie categories to continue to the site."
	result := g.Check("<html><body>"+text+"</body></html>", text, false)

	if !result.DetectedWalls.Consent {
		t.Error("expected consent wall detected")
	}
	if !result.HasIssue(entity.IssueConsentWall) {
		t.Error("expected CONSENT_WALL issue")
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_ConsentKeywordsOnLongPageIgnored(t *testing.T) {
	g := New(Config{})

	// A long article mentioning cookies is not a consent wall.
	text := healthyText(1500) + " The site updated its privacy policy and cookie consent banner last year."
	result := g.Check("<html>"+text+"</html>", text, false)

	if result.DetectedWalls.Consent {
		t.Error("long page must not be flagged as consent wall")
	}
}

func TestCheck_PaywallFromKeywords(t *testing.T) {
	g := New(Config{})

	// Short text with four distinct paywall keywords and no markup hints:
	// keyword score caps at 0.6 and the short-content bonus pushes it over.
	text := "Subscribe now for premium access. Start your free trial or log on if you are already a subscriber."
	result := g.Check("<div>"+text+"</div>", text, false)

	if !result.DetectedWalls.Paywall {
		t.Fatalf("expected paywall detected, issues=%v", result.Issues)
	}
	if !result.HasIssue(entity.IssuePaywall) {
		t.Error("expected PAYWALL issue")
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW in default mode, got %s", result.Recommendation)
	}
}

func TestCheck_PaywallStrictModeRoutesMetaOnly(t *testing.T) {
	g := New(Config{})

	text := "Subscribe now for premium access. Start your free trial or log on if you are already a subscriber."
	result := g.Check("<div>"+text+"</div>", text, true)

	if result.Recommendation != entity.RecommendMetaOnly {
		t.Errorf("expected META_ONLY in strict mode, got %s", result.Recommendation)
	}
}

func TestCheck_PaywallFromMarkupHints(t *testing.T) {
	g := New(Config{})

	// One keyword plus both structural hints crosses the threshold even
	// on a longer page.
	text := healthyText(400) + " subscription required to continue"
	html := `<div class="paywall-overlay" data-paywall="true">` + text + `</div>`
	result := g.Check(html, text, false)

	if !result.DetectedWalls.Paywall {
		t.Errorf("expected paywall from markup hints, issues=%v", result.Issues)
	}
}

func TestCheck_LoginWall(t *testing.T) {
	g := New(Config{})

	text := "Sign in to continue. Forgot password? Create an account to get started."
	html := `<form class="login-form"><input type="password" name="pw"></form>` + text
	result := g.Check(html, text, false)

	if !result.DetectedWalls.Login {
		t.Fatalf("expected login wall, issues=%v", result.Issues)
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_CaptchaDetected(t *testing.T) {
	g := New(Config{})

	text := "Please verify you are human by completing the reCAPTCHA challenge below before you can proceed to the content."
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.DetectedWalls.Captcha {
		t.Error("expected captcha wall")
	}
	if !result.HasIssue(entity.IssueCaptchaDetected) {
		t.Error("expected CAPTCHA_DETECTED issue")
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_OnlyOnePatternIssueFires(t *testing.T) {
	g := New(Config{})

	// Matches both the captcha and javascript categories; captcha has
	// priority and only one pattern issue may fire.
	text := "Please complete the captcha. This site also says: please enable JavaScript to view this page properly."
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.HasIssue(entity.IssueCaptchaDetected) {
		t.Error("expected CAPTCHA_DETECTED")
	}
	if result.HasIssue(entity.IssueJavaScriptRequired) {
		t.Error("only one pattern issue may fire per check")
	}
}

func TestCheck_JavaScriptRequired(t *testing.T) {
	g := New(Config{})

	text := "Please enable JavaScript to view this application. This experience needs a modern browser with scripts turned on."
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.HasIssue(entity.IssueJavaScriptRequired) {
		t.Errorf("expected JAVASCRIPT_REQUIRED, got %v", result.Issues)
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_ErrorPageRejected(t *testing.T) {
	g := New(Config{})

	text := "404 not found. The page you were looking for does not exist or has been moved somewhere else entirely."
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.HasIssue(entity.IssueErrorPage) {
		t.Errorf("expected ERROR_PAGE, got %v", result.Issues)
	}
	if result.Recommendation != entity.RecommendReject {
		t.Errorf("expected REJECT, got %s", result.Recommendation)
	}
}

func TestCheck_ContentTooShort(t *testing.T) {
	g := New(Config{})

	text := healthyText(120)[:120]
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.HasIssue(entity.IssueContentTooShort) {
		t.Errorf("expected CONTENT_TOO_SHORT, got %v", result.Issues)
	}
	if result.IsValid {
		t.Error("expected invalid result")
	}
	if result.Recommendation != entity.RecommendMetaOnly && result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected META_ONLY or WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_EncodingIssues(t *testing.T) {
	g := New(Config{})

	// Over 5% replacement characters in otherwise sufficient text.
	text := healthyText(400) + strings.Repeat("�", 60)
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.HasIssue(entity.IssueEncodingIssues) {
		t.Errorf("expected ENCODING_ISSUES, got %v", result.Issues)
	}
	if result.Recommendation != entity.RecommendWebview {
		t.Errorf("expected WEBVIEW, got %s", result.Recommendation)
	}
}

func TestCheck_MultipleWallsUnion(t *testing.T) {
	g := New(Config{})

	// A consent banner over a paywall: both walls detected, issues union.
	text := "Accept all cookie tracking. We value your privacy. Subscribe for premium access with a free trial, or continue reading as a subscriber."
	result := g.Check("<div>"+text+"</div>", text, false)

	if !result.DetectedWalls.Consent || !result.DetectedWalls.Paywall {
		t.Errorf("expected both walls, got %+v (issues %v)", result.DetectedWalls, result.Issues)
	}
	if len(result.Issues) < 2 {
		t.Errorf("expected issues to union, got %v", result.Issues)
	}
}

func TestCheck_ConfidenceClamped(t *testing.T) {
	g := New(Config{})

	// Stack enough issues that raw confidence would go negative.
	text := "Access denied. Subscribe for premium. Sign in with your password. Accept all cookie consent. Verify you are human captcha."
	result := g.Check(`<form class="login-form"><input type="password"></form><div class="paywall">`+text+`</div>`, text, false)

	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence out of range: %f", result.Confidence)
	}
	if result.IsValid {
		t.Error("expected invalid result")
	}
}

func TestCheck_CustomKeywords(t *testing.T) {
	g := New(Config{
		ConsentKeywords: []string{"zzz-consent-a", "zzz-consent-b"},
	})

	text := "zzz-consent-a and zzz-consent-b appear in this short custom page."
	result := g.Check("<html>"+text+"</html>", text, false)

	if !result.DetectedWalls.Consent {
		t.Error("expected custom consent keywords to apply")
	}
}
