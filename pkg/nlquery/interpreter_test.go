// ABOUTME: Tests for natural-language query interpretation
// ABOUTME: Verifies every rule, rule precedence, and conflict surfacing

package nlquery

import (
	"errors"
	"testing"

	"github.com/nainya/stringstore/pkg/filter"
)

func TestParsePalindrome(t *testing.T) {
	for _, q := range []string{
		"all palindromic strings",
		"strings that are palindromes",
		"Palindrome please",
	} {
		c, err := Parse(q)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", q, err)
		}
		if c.IsPalindrome == nil || !*c.IsPalindrome {
			t.Errorf("Parse(%q): expected is_palindrome=true, got %+v", q, c)
		}
	}
}

func TestParseSingleWord(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"single word strings", true},
		{"strings with one word", true},
		{"someone wordy said so", false}, // "one word" only as a standalone word
	}

	for _, tt := range tests {
		c, err := Parse(tt.query)
		if tt.want {
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.query, err)
			}
			if c.WordCount == nil || *c.WordCount != 1 {
				t.Errorf("Parse(%q): expected word_count=1, got %+v", tt.query, c)
			}
			continue
		}
		if err == nil && c.WordCount != nil {
			t.Errorf("Parse(%q): word_count must not fire, got %+v", tt.query, c)
		}
	}
}

func TestParseLengthComparison(t *testing.T) {
	c, err := Parse("longer than 10 characters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.MinLength == nil || *c.MinLength != 11 {
		t.Errorf("Expected min_length=11, got %+v", c.MinLength)
	}
	if c.MaxLength != nil {
		t.Errorf("Expected no max_length, got %d", *c.MaxLength)
	}

	c, err = Parse("shorter than 10 characters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.MaxLength == nil || *c.MaxLength != 9 {
		t.Errorf("Expected max_length=9, got %+v", c.MaxLength)
	}
	if c.MinLength != nil {
		t.Errorf("Expected no min_length, got %d", *c.MinLength)
	}
}

func TestParseExactLength(t *testing.T) {
	c, err := Parse("exactly 5 characters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.MinLength == nil || *c.MinLength != 5 {
		t.Errorf("Expected min_length=5, got %+v", c.MinLength)
	}
	if c.MaxLength == nil || *c.MaxLength != 5 {
		t.Errorf("Expected max_length=5, got %+v", c.MaxLength)
	}
}

func TestExactLengthOverridesComparison(t *testing.T) {
	// Both rules fire; the more specific exact-length rule runs later and
	// overwrites the comparison's bound.
	c, err := Parse("longer than 3 but exactly 5 characters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.MinLength == nil || *c.MinLength != 5 {
		t.Errorf("Expected min_length=5, got %+v", c.MinLength)
	}
	if c.MaxLength == nil || *c.MaxLength != 5 {
		t.Errorf("Expected max_length=5, got %+v", c.MaxLength)
	}
}

func TestParseContainsCharacter(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"strings containing the letter z", "z"},
		{"strings containing a letter q", "q"},
		{"containing the x", "x"},
		{"strings that contains 'j'", "j"},
		{"containing z", "z"},
		{"strings containing the first vowel", "a"},
	}

	for _, tt := range tests {
		c, err := Parse(tt.query)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.query, err)
		}
		if c.ContainsCharacter != tt.want {
			t.Errorf("Parse(%q): expected contains_character=%q, got %q", tt.query, tt.want, c.ContainsCharacter)
		}
	}
}

func TestFirstVowelWinsOverContainsPattern(t *testing.T) {
	c, err := Parse("containing the first vowel and the letter z")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.ContainsCharacter != "a" {
		t.Errorf("Expected first-vowel sub-rule to win, got %q", c.ContainsCharacter)
	}
}

func TestParseCombinedRules(t *testing.T) {
	c, err := Parse("single word palindromes longer than 3 characters")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.IsPalindrome == nil || !*c.IsPalindrome {
		t.Error("Expected is_palindrome=true")
	}
	if c.WordCount == nil || *c.WordCount != 1 {
		t.Error("Expected word_count=1")
	}
	if c.MinLength == nil || *c.MinLength != 4 {
		t.Errorf("Expected min_length=4, got %+v", c.MinLength)
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	c, err := Parse("LONGER THAN 10 CHARACTERS CONTAINING THE LETTER Z")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.MinLength == nil || *c.MinLength != 11 {
		t.Errorf("Expected min_length=11, got %+v", c.MinLength)
	}
	if c.ContainsCharacter != "z" {
		t.Errorf("Expected contains_character=z, got %q", c.ContainsCharacter)
	}
}

func TestParseUnparseable(t *testing.T) {
	for _, q := range []string{"gibberish", "", "show me everything nice"} {
		if _, err := Parse(q); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Parse(%q): expected ErrUnparseable, got %v", q, err)
		}
	}
}

func TestParsedCriteriaPassValidation(t *testing.T) {
	// The comparison rule takes only its first match and the exact-length
	// rule overwrites both bounds with the same value, so every parse
	// result must come out satisfiable.
	queries := []string{
		"longer than 10 and shorter than 3",
		"exactly 5 characters and longer than 10",
		"shorter than 0 words",
	}

	for _, q := range queries {
		c, err := Parse(q)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", q, err)
		}
		if verr := c.Validate(); verr != nil && !errors.Is(verr, filter.ErrInvalid) {
			t.Errorf("Parse(%q): unexpected validation error %v", q, verr)
		}
	}
}
