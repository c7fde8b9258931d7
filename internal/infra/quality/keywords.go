package quality

import "regexp"

// Keyword lists are matched case-insensitively against extracted plain
// text. They cover the languages the ingestion traffic actually sees:
// English, Turkish, German, French, Spanish.

// defaultConsentKeywords indicate a cookie/privacy consent interstitial.
// Two or more distinct matches on a short page flag a consent wall.
var defaultConsentKeywords = []string{
	// English
	"cookie",
	"consent",
	"accept all",
	"we value your privacy",
	"privacy policy",
	"gdpr",
	// Turkish
	"çerez",
	"kişisel verilerin",
	"kabul et",
	"gizlilik politikası",
	// German
	"zustimmen",
	"datenschutz",
	"cookies akzeptieren",
	"einwilligung",
	// French
	"accepter les cookies",
	"politique de confidentialité",
	"consentement",
	// Spanish
	"aceptar cookies",
	"política de privacidad",
	"consentimiento",
}

// defaultPaywallKeywords indicate content gated behind a subscription.
var defaultPaywallKeywords = []string{
	// English
	"subscribe",
	"subscription",
	"subscriber",
	"premium",
	"paywall",
	"free trial",
	"unlock this article",
	"already a subscriber",
	"continue reading",
	// Turkish
	"abone ol",
	"abonelik",
	// German
	"abonnieren",
	"abonnement",
	// French
	"s'abonner",
	"abonnez-vous",
	// Spanish
	"suscríbete",
	"suscripción",
}

// defaultLoginKeywords indicate a login requirement.
var defaultLoginKeywords = []string{
	// English
	"log in",
	"login",
	"sign in",
	"create an account",
	"forgot password",
	// Turkish
	"giriş yap",
	"üye ol",
	// German
	"anmelden",
	"einloggen",
	// French
	"se connecter",
	"connexion",
	// Spanish
	"iniciar sesión",
	"regístrate",
}

// Structural hint patterns run against raw HTML, where class names and
// form markup survive even when the visible text is sparse.
var (
	paywallMarkupHint = regexp.MustCompile(`(?i)(paywall|regwall|metered|piano-|tinypass)`)
	paywallCSSHint    = regexp.MustCompile(`(?i)(class|id|data-[a-z-]+)\s*=\s*["'][^"']*(paywall|locked|premium|subscriber)`)

	passwordInputHint = regexp.MustCompile(`(?i)<input[^>]+type\s*=\s*["']?password`)
	loginFormHint     = regexp.MustCompile(`(?i)(login-form|signin-form|auth-form|login_form)`)
	oauthButtonHint   = regexp.MustCompile(`(?i)(sign in with (google|facebook|apple|twitter)|continue with (google|facebook|apple)|oauth)`)
)

// Pattern categories checked against both text and raw HTML. The first
// matching category contributes exactly one issue per check; simplicity
// over completeness.
var (
	captchaPattern = regexp.MustCompile(`(?i)(captcha|recaptcha|hcaptcha|are you a robot|verify you are human|unusual traffic from your)`)

	jsRequiredPattern = regexp.MustCompile(`(?i)(enable javascript|javascript is (required|disabled)|please turn on javascript|requires javascript)`)

	botBlockedPattern = regexp.MustCompile(`(?i)(access denied|you have been blocked|attention required|ddos protection|checking your browser)`)

	errorPagePattern = regexp.MustCompile(`(?i)(404 not found|page not found|500 internal server error|service unavailable|something went wrong|an error occurred)`)
)

// ExtendedPaywallKeywords returns the built-in paywall list with operator
// additions appended.
func ExtendedPaywallKeywords(extra []string) []string {
	return append(append([]string{}, defaultPaywallKeywords...), extra...)
}

// ExtendedLoginKeywords returns the built-in login list with operator
// additions appended.
func ExtendedLoginKeywords(extra []string) []string {
	return append(append([]string{}, defaultLoginKeywords...), extra...)
}
