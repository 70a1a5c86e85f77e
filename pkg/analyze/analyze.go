// ABOUTME: Derived text properties and content fingerprinting
// ABOUTME: Pure functions over arbitrary string input

package analyze

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Properties holds the descriptive attributes derived from a string value.
// They are computed once at record creation and never recomputed.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Fingerprint returns the deterministic storage key for a value:
// the hex-encoded SHA-256 digest of its UTF-8 bytes.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Compute derives properties from a raw value. It is total: every string,
// including the empty string, is valid input.
func Compute(value string) Properties {
	lowered := strings.ToLower(value)

	freq := make(map[string]int)
	for _, r := range lowered {
		freq[string(r)]++
	}

	normalized := normalizePalindrome(lowered)

	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          normalized != "" && isReversed(normalized),
		UniqueCharacters:      len(freq),
		WordCount:             len(strings.Fields(value)),
		CharacterFrequencyMap: freq,
	}
}

// normalizePalindrome strips every character that is not an ASCII letter
// or digit. The input must already be lowercased, so the result is stable
// under repeated normalization.
func normalizePalindrome(lowered string) string {
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isReversed reports whether s reads identically forward and backward.
func isReversed(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}
