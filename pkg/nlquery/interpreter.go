// ABOUTME: Natural-language query interpreter for record filters
// ABOUTME: Ordered pattern rules producing canonical filter criteria

package nlquery

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/nainya/stringstore/pkg/filter"
)

// ErrUnparseable indicates that no rule produced any criterion.
var ErrUnparseable = errors.New("nlquery: query not understood")

// Rule is one pattern rule. Apply inspects the lowercased query and may set
// criteria fields. Rules run in fixed order; a later rule overwrites fields
// set by an earlier one, so specific rules are listed after general ones.
type Rule struct {
	Name  string
	Apply func(q string, c *filter.Criteria)
}

var (
	lengthPattern   = regexp.MustCompile(`(longer|shorter) than\s*(\d+)`)
	exactPattern    = regexp.MustCompile(`exactly\s*(\d+)`)
	oneWordPattern  = regexp.MustCompile(`\bone word\b`)
	containsPattern = regexp.MustCompile(`(?:containing|contains) (?:the letter |a letter |the |a |of |)['"]?(\w)['"]?`)
)

// rules is the interpretation order. Precedence is positional: the
// exact-length rule runs after the length-comparison rule and overwrites
// both bounds when it fires.
var rules = []Rule{
	{Name: "palindrome", Apply: applyPalindrome},
	{Name: "single_word", Apply: applySingleWord},
	{Name: "length_comparison", Apply: applyLengthComparison},
	{Name: "exact_length", Apply: applyExactLength},
	{Name: "contains_character", Apply: applyContainsCharacter},
}

// Parse interprets a free-text phrase as filter criteria. Matching is
// case-insensitive. It returns ErrUnparseable when no rule fires; an
// unsatisfiable range produced by the rules is left for the caller to
// reject via Criteria.Validate.
func Parse(query string) (filter.Criteria, error) {
	q := strings.ToLower(query)

	var c filter.Criteria
	for _, rule := range rules {
		rule.Apply(q, &c)
	}

	if c.IsEmpty() {
		return filter.Criteria{}, ErrUnparseable
	}
	return c, nil
}

// applyPalindrome matches "palindrome", "palindromic", etc.
func applyPalindrome(q string, c *filter.Criteria) {
	if strings.Contains(q, "palind") {
		c.IsPalindrome = filter.Bool(true)
	}
}

func applySingleWord(q string, c *filter.Criteria) {
	if strings.Contains(q, "single word") || oneWordPattern.MatchString(q) {
		c.WordCount = filter.Int(1)
	}
}

// applyLengthComparison turns the strict bound of "longer/shorter than N"
// into the inclusive bound N+1 / N-1.
func applyLengthComparison(q string, c *filter.Criteria) {
	m := lengthPattern.FindStringSubmatch(q)
	if m == nil {
		return
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}

	switch m[1] {
	case "longer":
		c.MinLength = filter.Int(n + 1)
	case "shorter":
		c.MaxLength = filter.Int(n - 1)
	}
}

func applyExactLength(q string, c *filter.Criteria) {
	m := exactPattern.FindStringSubmatch(q)
	if m == nil {
		return
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}

	c.MinLength = filter.Int(n)
	c.MaxLength = filter.Int(n)
}

// applyContainsCharacter evaluates sub-rules in priority order and stops at
// the first match: the "first vowel" literal, then the containing/contains
// pattern with its optional article.
func applyContainsCharacter(q string, c *filter.Criteria) {
	if strings.Contains(q, "first vowel") {
		c.ContainsCharacter = "a"
		return
	}

	if m := containsPattern.FindStringSubmatch(q); m != nil {
		c.ContainsCharacter = m[1]
	}
}
