package entity

import (
	"errors"
	"testing"
)

func TestFetchError_Error(t *testing.T) {
	err := NewFetchError(CodeSizeLimit, "body exceeded 5242880 bytes")
	want := "SIZE_LIMIT: body exceeded 5242880 bytes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestFetchError_AsTarget(t *testing.T) {
	var wrapped error = NewFetchError(CodePrivateIP, "hostname matches 10.0.0.0/8")

	var fe *FetchError
	if !errors.As(wrapped, &fe) {
		t.Fatal("errors.As should unwrap *FetchError")
	}
	if fe.Code != CodePrivateIP {
		t.Errorf("Code = %q, want %q", fe.Code, CodePrivateIP)
	}
}

func TestRemovedElements_Unsafe(t *testing.T) {
	tests := []struct {
		name    string
		removed RemovedElements
		want    bool
	}{
		{"nothing removed", RemovedElements{}, false},
		{"one script", RemovedElements{Scripts: 1}, true},
		{"one dangerous url", RemovedElements{DangerousURLs: 1}, true},
		{"one object", RemovedElements{Objects: 1}, true},
		{"few event handlers", RemovedElements{EventHandlers: 3}, false},
		{"many event handlers", RemovedElements{EventHandlers: 4}, true},
		{"iframes alone are not unsafe", RemovedElements{Iframes: 5}, false},
		{"forms alone are not unsafe", RemovedElements{Forms: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.removed.Unsafe(); got != tt.want {
				t.Errorf("Unsafe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualityCheckResult_HasIssue(t *testing.T) {
	result := QualityCheckResult{
		Issues: []QualityIssue{IssuePaywall, IssueContentTooShort},
	}

	if !result.HasIssue(IssuePaywall) {
		t.Error("expected PAYWALL issue to be present")
	}
	if result.HasIssue(IssueCaptchaDetected) {
		t.Error("CAPTCHA_DETECTED should not be present")
	}
}

func TestURLHash(t *testing.T) {
	// Same normalized URL must produce the same key.
	a := URLHash("https://Example.COM/article?id=1")
	b := URLHash("https://example.com/article?id=1")
	if a != b {
		t.Errorf("case-insensitive host should normalize: %q != %q", a, b)
	}

	// Fragments are dropped during normalization.
	c := URLHash("https://example.com/article?id=1#section-2")
	if a != c {
		t.Errorf("fragment should not change the key: %q != %q", a, c)
	}

	// Different paths produce different keys.
	d := URLHash("https://example.com/other")
	if a == d {
		t.Error("distinct URLs should not collide")
	}

	// 64 hex chars (SHA-256).
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
}
