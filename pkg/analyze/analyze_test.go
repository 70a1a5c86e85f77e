// ABOUTME: Tests for property computation and fingerprinting
// ABOUTME: Verifies palindrome normalization and character accounting

package analyze

import (
	"testing"
	"unicode/utf8"
)

func TestComputeEmptyString(t *testing.T) {
	p := Compute("")

	if p.Length != 0 {
		t.Errorf("Expected length 0, got %d", p.Length)
	}
	if p.IsPalindrome {
		t.Error("Empty string must not be a palindrome")
	}
	if p.WordCount != 0 {
		t.Errorf("Expected word count 0, got %d", p.WordCount)
	}
	if p.UniqueCharacters != 0 {
		t.Errorf("Expected 0 unique characters, got %d", p.UniqueCharacters)
	}
	if len(p.CharacterFrequencyMap) != 0 {
		t.Errorf("Expected empty frequency map, got %v", p.CharacterFrequencyMap)
	}
}

func TestComputePalindrome(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"A man a plan a canal Panama", true},
		{"racecar", true},
		{"RaceCar", true},
		{"No 'x' in Nixon", true},
		{"12321", true},
		{"hello", false},
		{"ab", false},
		{"!!!", false}, // normalizes to empty, not a palindrome
		{"   ", false},
		{"a", true},
	}

	for _, tt := range tests {
		p := Compute(tt.value)
		if p.IsPalindrome != tt.want {
			t.Errorf("Compute(%q).IsPalindrome = %v, want %v", tt.value, p.IsPalindrome, tt.want)
		}
	}
}

func TestComputeHelloWorld(t *testing.T) {
	p := Compute("Hello World")

	if p.Length != 11 {
		t.Errorf("Expected length 11, got %d", p.Length)
	}
	if p.WordCount != 2 {
		t.Errorf("Expected word count 2, got %d", p.WordCount)
	}
	// h e l o space w r d = 8 distinct lowered characters
	if p.UniqueCharacters != 8 {
		t.Errorf("Expected 8 unique characters, got %d", p.UniqueCharacters)
	}
	if p.CharacterFrequencyMap["l"] != 3 {
		t.Errorf("Expected 3 occurrences of 'l', got %d", p.CharacterFrequencyMap["l"])
	}
	if p.CharacterFrequencyMap["o"] != 2 {
		t.Errorf("Expected 2 occurrences of 'o', got %d", p.CharacterFrequencyMap["o"])
	}
	if p.CharacterFrequencyMap[" "] != 1 {
		t.Errorf("Expected 1 occurrence of ' ', got %d", p.CharacterFrequencyMap[" "])
	}
}

func TestComputeLengthCountsRunes(t *testing.T) {
	tests := []string{"", "abc", "héllo", "日本語", "a b  c"}

	for _, s := range tests {
		p := Compute(s)
		if want := utf8.RuneCountInString(s); p.Length != want {
			t.Errorf("Compute(%q).Length = %d, want %d", s, p.Length, want)
		}
	}
}

func TestComputeFrequencyIsCaseInsensitive(t *testing.T) {
	p := Compute("AaA")

	if p.CharacterFrequencyMap["a"] != 3 {
		t.Errorf("Expected 3 occurrences of 'a', got %d", p.CharacterFrequencyMap["a"])
	}
	if _, ok := p.CharacterFrequencyMap["A"]; ok {
		t.Error("Frequency map must be keyed by lowercased characters")
	}
	if p.UniqueCharacters != 1 {
		t.Errorf("Expected 1 unique character, got %d", p.UniqueCharacters)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	values := []string{"A man, a plan!", "hello world", "123 abc !?", ""}

	for _, v := range values {
		once := normalizePalindrome(v)
		twice := normalizePalindrome(once)
		if once != twice {
			t.Errorf("Normalization not idempotent for %q: %q != %q", v, once, twice)
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	// Known SHA-256 of "abc".
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	if got := Fingerprint("abc"); got != want {
		t.Errorf("Fingerprint(\"abc\") = %s, want %s", got, want)
	}
	if Fingerprint("abc") != Fingerprint("abc") {
		t.Error("Fingerprint must be deterministic")
	}
	if Fingerprint("abc") == Fingerprint("abd") {
		t.Error("Distinct values must not share a fingerprint")
	}
}
