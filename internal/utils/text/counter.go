// Package text provides utilities for text processing and analysis.
// This package includes reusable functions for character counting and decode
// fidelity measurement shared by the charset decoder and the quality gate.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// This function correctly handles multi-byte characters including Japanese,
// Turkish, emoji, and other Unicode text by counting runes instead of bytes.
//
// Examples:
//
//	CountRunes("hello")     // returns 5 (ASCII text)
//	CountRunes("günaydın")  // returns 8 (Turkish text)
//	CountRunes("")          // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}

// ReplacementRatio returns the fraction of runes in text that are the
// Unicode replacement character U+FFFD, in [0,1]. A high ratio means the
// byte stream was decoded with the wrong encoding. Empty input returns 0.
func ReplacementRatio(text string) float64 {
	if text == "" {
		return 0
	}

	total := 0
	replaced := 0
	for _, r := range text {
		total++
		if r == '�' {
			replaced++
		}
	}

	return float64(replaced) / float64(total)
}
