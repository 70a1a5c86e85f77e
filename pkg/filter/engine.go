// ABOUTME: Filter predicate engine over stored records
// ABOUTME: Pure conjunction of the present criteria, no evaluation order effects

package filter

import (
	"strings"

	"github.com/nainya/stringstore/pkg/store"
)

// Match reports whether rec satisfies every present criterion. Criteria are
// assumed validated; this layer never errors.
func (c Criteria) Match(rec store.Record) bool {
	p := rec.Properties

	if c.IsPalindrome != nil && p.IsPalindrome != *c.IsPalindrome {
		return false
	}
	if c.MinLength != nil && p.Length < *c.MinLength {
		return false
	}
	if c.MaxLength != nil && p.Length > *c.MaxLength {
		return false
	}
	if c.WordCount != nil && p.WordCount != *c.WordCount {
		return false
	}
	if c.ContainsCharacter != "" {
		ch := strings.ToLower(c.ContainsCharacter)
		if _, ok := p.CharacterFrequencyMap[ch]; !ok {
			return false
		}
	}

	return true
}

// Apply returns the records matching c. Empty criteria match everything.
func Apply(records []store.Record, c Criteria) []store.Record {
	matched := make([]store.Record, 0, len(records))
	for _, rec := range records {
		if c.Match(rec) {
			matched = append(matched, rec)
		}
	}
	return matched
}
