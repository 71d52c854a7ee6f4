package word

import (
	"regexp"
	"unicode/utf8"
)

// Verdict is the outcome of classifying a candidate.
type Verdict uint8

const (
	// Reject means the candidate is noise.
	Reject Verdict = iota
	// Accept means the candidate looks like a word.
	Accept
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Rule is a named predicate in the classification pipeline.
// Reject returns true when the cleaned candidate must be rejected.
type Rule struct {
	Name   string
	Reject func(cleaned string) bool
}

// Classifier evaluates a rule table in order.
// The zero value is not usable; use New or Default.
type Classifier struct {
	rules []Rule
}

// New creates a classifier with the built-in rule table.
func New() *Classifier {
	rules := make([]Rule, len(builtinRules))
	copy(rules, builtinRules)
	return &Classifier{rules: rules}
}

var defaultClassifier = New()

// Default returns the shared classifier with only the built-in rules.
func Default() *Classifier {
	return defaultClassifier
}

// WithRules returns a new classifier that evaluates the receiver's rules
// followed by extra. The receiver is not modified.
func (c *Classifier) WithRules(extra ...Rule) *Classifier {
	rules := make([]Rule, 0, len(c.rules)+len(extra))
	rules = append(rules, c.rules...)
	for _, r := range extra {
		if r.Reject != nil {
			rules = append(rules, r)
		}
	}
	return &Classifier{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Classify returns Accept if no rule rejects the candidate.
func (c *Classifier) Classify(candidate string) Verdict {
	v, _ := c.Explain(candidate)
	return v
}

// Explain classifies the candidate and returns the name of the rule that
// rejected it, or "" on accept.
func (c *Classifier) Explain(candidate string) (Verdict, string) {
	cleaned := Clean(candidate)
	for _, r := range c.rules {
		if r.Reject(cleaned) {
			return Reject, r.Name
		}
	}
	return Accept, ""
}

// Classify runs the default classifier.
func Classify(candidate string) Verdict {
	return defaultClassifier.Classify(candidate)
}

// IsWord reports whether the default classifier accepts the candidate.
func IsWord(candidate string) bool {
	return defaultClassifier.Classify(candidate) == Accept
}

var edgePunct = regexp.MustCompile(`^[^\w\x{00C0}-\x{024F}]+|[^\w\x{00C0}-\x{024F}]+$`)

// Clean strips leading and trailing characters that are neither ASCII word
// characters nor Latin-1/Latin Extended letters. Interior characters are
// kept, so "(don't)" becomes "don't" and "--well-known--" becomes
// "well-known".
func Clean(s string) string {
	return edgePunct.ReplaceAllString(s, "")
}

// textLen counts UTF-16 code units, the unit the length threshold was
// defined in.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}
