// ABOUTME: Canonical filter criteria for record queries
// ABOUTME: Constructed per query from structured params or parsed phrases

package filter

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrConflicting indicates an unsatisfiable length range (min > max)
	ErrConflicting = errors.New("filter: conflicting length bounds")

	// ErrInvalid indicates a criteria field outside its allowed domain
	ErrInvalid = errors.New("filter: invalid criteria")
)

// Criteria is the canonical, engine-independent representation of what to
// filter for. Nil/empty fields impose no constraint.
type Criteria struct {
	IsPalindrome      *bool  `json:"is_palindrome,omitempty"`
	MinLength         *int   `json:"min_length,omitempty"`
	MaxLength         *int   `json:"max_length,omitempty"`
	WordCount         *int   `json:"word_count,omitempty"`
	ContainsCharacter string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.IsPalindrome == nil &&
		c.MinLength == nil &&
		c.MaxLength == nil &&
		c.WordCount == nil &&
		c.ContainsCharacter == ""
}

// Validate checks field domains: integer criteria must be non-negative,
// ContainsCharacter must be a single character, and a set min/max pair must
// describe a satisfiable range.
func (c Criteria) Validate() error {
	for name, v := range map[string]*int{
		"min_length": c.MinLength,
		"max_length": c.MaxLength,
		"word_count": c.WordCount,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must be non-negative", ErrInvalid, name)
		}
	}

	if c.ContainsCharacter != "" && utf8.RuneCountInString(c.ContainsCharacter) != 1 {
		return fmt.Errorf("%w: contains_character must be a single character", ErrInvalid)
	}

	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return fmt.Errorf("%w: min_length %d > max_length %d", ErrConflicting, *c.MinLength, *c.MaxLength)
	}

	return nil
}

// Int is a convenience for building pointer-typed criteria fields.
func Int(v int) *int { return &v }

// Bool is a convenience for building pointer-typed criteria fields.
func Bool(v bool) *bool { return &v }
