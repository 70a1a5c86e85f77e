// ABOUTME: Tests for criteria validation and predicate evaluation
// ABOUTME: Verifies conjunction semantics and inclusive bounds

package filter

import (
	"errors"
	"testing"

	"github.com/nainya/stringstore/pkg/analyze"
	"github.com/nainya/stringstore/pkg/store"
)

func makeRecord(value string) store.Record {
	return store.Record{
		ID:         analyze.Fingerprint(value),
		Value:      value,
		Properties: analyze.Compute(value),
	}
}

func TestEmptyCriteriaMatchesEverything(t *testing.T) {
	records := []store.Record{
		makeRecord("racecar"),
		makeRecord("hello world"),
		makeRecord(""),
	}

	matched := Apply(records, Criteria{})
	if len(matched) != len(records) {
		t.Errorf("Expected %d matches, got %d", len(records), len(matched))
	}
}

func TestMatchSingleCriteria(t *testing.T) {
	tests := []struct {
		name  string
		c     Criteria
		value string
		want  bool
	}{
		{"palindrome true", Criteria{IsPalindrome: Bool(true)}, "racecar", true},
		{"palindrome false match", Criteria{IsPalindrome: Bool(false)}, "hello", true},
		{"palindrome mismatch", Criteria{IsPalindrome: Bool(true)}, "hello", false},
		{"min length inclusive", Criteria{MinLength: Int(7)}, "racecar", true},
		{"min length excluded", Criteria{MinLength: Int(8)}, "racecar", false},
		{"max length inclusive", Criteria{MaxLength: Int(7)}, "racecar", true},
		{"max length excluded", Criteria{MaxLength: Int(6)}, "racecar", false},
		{"word count exact", Criteria{WordCount: Int(2)}, "hello world", true},
		{"word count mismatch", Criteria{WordCount: Int(1)}, "hello world", false},
		{"contains character", Criteria{ContainsCharacter: "z"}, "zebra", true},
		{"contains character case-insensitive", Criteria{ContainsCharacter: "Z"}, "zebra", true},
		{"contains character against uppercase value", Criteria{ContainsCharacter: "z"}, "ZEBRA", true},
		{"contains character miss", Criteria{ContainsCharacter: "q"}, "zebra", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Match(makeRecord(tt.value)); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConjunctionAcrossCriteria(t *testing.T) {
	c := Criteria{MinLength: Int(3), ContainsCharacter: "a"}

	// Satisfies both.
	if !c.Match(makeRecord("banana")) {
		t.Error("Record satisfying both criteria must match")
	}
	// Long enough but no 'a'.
	if c.Match(makeRecord("hello")) {
		t.Error("Record failing one criterion must be excluded")
	}
	// Has 'a' but too short.
	if c.Match(makeRecord("at")) {
		t.Error("Record failing one criterion must be excluded")
	}
}

func TestApplyFilters(t *testing.T) {
	records := []store.Record{
		makeRecord("racecar"),
		makeRecord("level"),
		makeRecord("hello world"),
	}

	matched := Apply(records, Criteria{IsPalindrome: Bool(true)})
	if len(matched) != 2 {
		t.Fatalf("Expected 2 palindromes, got %d", len(matched))
	}
	for _, rec := range matched {
		if !rec.Properties.IsPalindrome {
			t.Errorf("Non-palindrome %q in results", rec.Value)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Criteria
		wantErr error
	}{
		{"empty", Criteria{}, nil},
		{"valid range", Criteria{MinLength: Int(1), MaxLength: Int(5)}, nil},
		{"equal bounds", Criteria{MinLength: Int(5), MaxLength: Int(5)}, nil},
		{"conflicting range", Criteria{MinLength: Int(6), MaxLength: Int(5)}, ErrConflicting},
		{"negative min", Criteria{MinLength: Int(-1)}, ErrInvalid},
		{"negative word count", Criteria{WordCount: Int(-2)}, ErrInvalid},
		{"multi-character contains", Criteria{ContainsCharacter: "ab"}, ErrInvalid},
		{"single multibyte character", Criteria{ContainsCharacter: "é"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Criteria{}).IsEmpty() {
		t.Error("Zero criteria must be empty")
	}
	if (Criteria{WordCount: Int(1)}).IsEmpty() {
		t.Error("Criteria with a set field must not be empty")
	}
	if (Criteria{ContainsCharacter: "a"}).IsEmpty() {
		t.Error("Criteria with a character must not be empty")
	}
}
