package fetcher

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestNormalizeCharset(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ISO-8859-9", "windows-1254"},
		{"iso-8859-1", "windows-1252"},
		{"ascii", "utf-8"},
		{"US-ASCII", "utf-8"},
		{"UTF-8", "utf-8"},
		{" windows-1254 ", "windows-1254"},
		{"shift_jis", "shift_jis"},
	}

	for _, tt := range tests {
		if got := normalizeCharset(tt.in); got != tt.want {
			t.Errorf("normalizeCharset(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCharsetFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"text/html; charset=utf-8", "utf-8"},
		{"text/html; charset=ISO-8859-9", "ISO-8859-9"},
		{"text/html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := charsetFromHeader(tt.header); got != tt.want {
			t.Errorf("charsetFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestCharsetFromMeta(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"html5 form", `<html><head><meta charset="windows-1254"></head>`, "windows-1254"},
		{"unquoted", `<meta charset=utf-8>`, "utf-8"},
		{"http-equiv form", `<meta http-equiv="Content-Type" content="text/html; charset=iso-8859-9">`, "iso-8859-9"},
		{"no declaration", `<html><head><title>x</title></head>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := charsetFromMeta([]byte(tt.html)); got != tt.want {
				t.Errorf("charsetFromMeta() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeBody_HeaderWinsOverMeta(t *testing.T) {
	html := `<meta charset="iso-8859-9"><p>hello</p>`
	decoded := decodeBody([]byte(html), "text/html; charset=utf-8")

	if decoded.Charset != "utf-8" {
		t.Errorf("expected header charset to win, got %q", decoded.Charset)
	}
}

func TestDecodeBody_TurkishWindows1254(t *testing.T) {
	// "günaydın" encoded as windows-1254, declared with the common
	// iso-8859-9 mislabel.
	enc := charmap.Windows1254.NewEncoder()
	raw, err := enc.Bytes([]byte("<p>günaydın</p>"))
	if err != nil {
		t.Fatalf("fixture encode: %v", err)
	}

	decoded := decodeBody(raw, "text/html; charset=iso-8859-9")

	if decoded.Charset != "windows-1254" {
		t.Errorf("expected alias normalization to windows-1254, got %q", decoded.Charset)
	}
	if !strings.Contains(decoded.Text, "günaydın") {
		t.Errorf("expected decoded Turkish text, got %q", decoded.Text)
	}
	if decoded.LowConfidence {
		t.Error("expected high-confidence decode")
	}
}

func TestDecodeBody_FallbackOnGarbledDecode(t *testing.T) {
	// Turkish text served as windows-1254 with no charset declaration at
	// all: the default UTF-8 decode garbles it into replacement characters
	// and the fallback chain must recover it.
	enc := charmap.Windows1254.NewEncoder()
	raw, err := enc.Bytes([]byte(strings.Repeat("ğüşıöç ", 40)))
	if err != nil {
		t.Fatalf("fixture encode: %v", err)
	}

	decoded := decodeBody(raw, "")

	if decoded.LowConfidence {
		t.Errorf("expected fallback to produce a confident decode, charset=%q", decoded.Charset)
	}
	if !strings.Contains(decoded.Text, "ğüşıöç") {
		t.Errorf("expected fallback decode to recover text, got charset=%q", decoded.Charset)
	}
}

func TestDecodeBody_DefaultsToUTF8(t *testing.T) {
	decoded := decodeBody([]byte("<p>plain</p>"), "")

	if decoded.Charset != "utf-8" {
		t.Errorf("expected utf-8 default, got %q", decoded.Charset)
	}
	if decoded.LowConfidence {
		t.Error("clean ASCII should never be low confidence")
	}
}
