package metrics

import (
	"time"

	"pagegate/internal/domain/entity"
)

// RecordFetch records one fetch attempt. Outcome is "success" or the
// FetchError code string.
func RecordFetch(outcome string, duration time.Duration, bodyBytes int64, redirectHops int) {
	FetchAttemptsTotal.WithLabelValues(outcome).Inc()
	FetchDuration.Observe(duration.Seconds())
	if bodyBytes > 0 {
		FetchSize.Observe(float64(bodyBytes))
	}
	FetchRedirectHops.Observe(float64(redirectHops))
}

// RecordRateLimitCheck records a rate-limit decision.
// Limiter is "client" or "domain".
func RecordRateLimitCheck(limiter string, verdict string) {
	RateLimitChecksTotal.WithLabelValues(limiter, verdict).Inc()
}

// RecordRobotsCache records the result of one robots cache lookup.
func RecordRobotsCache(result string) {
	RobotsCacheTotal.WithLabelValues(result).Inc()
}

// RecordRobotsBlocked records a URL denied by robots policy.
func RecordRobotsBlocked() {
	RobotsBlockedTotal.Inc()
}

// RecordSanitization records the removal counts of one sanitization pass.
func RecordSanitization(removed entity.RemovedElements) {
	record := func(category string, n int) {
		if n > 0 {
			SanitizerRemovalsTotal.WithLabelValues(category).Add(float64(n))
		}
	}
	record("scripts", removed.Scripts)
	record("iframes", removed.Iframes)
	record("event_handlers", removed.EventHandlers)
	record("dangerous_urls", removed.DangerousURLs)
	record("forms", removed.Forms)
	record("objects", removed.Objects)
}

// RecordQualityResult records the issues and recommendation of one
// classification.
func RecordQualityResult(result *entity.QualityCheckResult) {
	for _, issue := range result.Issues {
		QualityIssuesTotal.WithLabelValues(string(issue)).Inc()
	}
	RecommendationsTotal.WithLabelValues(string(result.Recommendation)).Inc()
}

// RecordSPABypass records an SPA denylist short-circuit.
// Source is "structured", "scrape", or "fallback".
func RecordSPABypass(source string) {
	SPABypassTotal.WithLabelValues(source).Inc()
}

// RecordResultCacheWrite records a fire-and-forget cache write outcome.
func RecordResultCacheWrite(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ResultCacheWritesTotal.WithLabelValues(status).Inc()
}
