package extraction

import (
	"regexp"
)

// Rule tags text that matches Pattern. Value carries the rule's result when
// the tag alone is not enough (a tier score, a canonical term).
type Rule struct {
	Tag     string
	Value   int
	Pattern *regexp.Regexp
}

// RuleSet is an ordered rule table. Order is significant for First.
type RuleSet []Rule

// rx compiles a case-insensitive pattern. Tables are package-level, so a bad
// pattern fails at init.
func rx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// rule is shorthand for a tag-only rule.
func rule(tag, pattern string) Rule {
	return Rule{Tag: tag, Pattern: rx(pattern)}
}

// First returns the first rule in table order that matches text.
func (rs RuleSet) First(text string) (Rule, bool) {
	for _, r := range rs {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return Rule{}, false
}

// FirstTag returns the tag of the first matching rule, or def.
func (rs RuleSet) FirstTag(text, def string) string {
	if r, ok := rs.First(text); ok {
		return r.Tag
	}
	return def
}

// FirstTagPtr is FirstTag with a nil default.
func (rs RuleSet) FirstTagPtr(text string) *string {
	if r, ok := rs.First(text); ok {
		tag := r.Tag
		return &tag
	}
	return nil
}

// Any reports whether any rule matches.
func (rs RuleSet) Any(text string) bool {
	_, ok := rs.First(text)
	return ok
}

// All returns every matching rule, in table order.
func (rs RuleSet) All(text string) []Rule {
	var out []Rule
	for _, r := range rs {
		if r.Pattern.MatchString(text) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the total number of non-overlapping matches across all rules.
func (rs RuleSet) Count(text string) int {
	n := 0
	for _, r := range rs {
		n += len(r.Pattern.FindAllStringIndex(text, -1))
	}
	return n
}

// CaptureSet is an ordered list of patterns whose first submatch is the
// extracted value.
type CaptureSet []*regexp.Regexp

// First returns submatch 1 of the first pattern that matches, or "".
func (cs CaptureSet) First(text string) string {
	for _, re := range cs {
		if m := re.FindStringSubmatch(text); m != nil && len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// FirstPtr is First with nil for no match.
func (cs CaptureSet) FirstPtr(text string) *string {
	if v := cs.First(text); v != "" {
		return &v
	}
	return nil
}
