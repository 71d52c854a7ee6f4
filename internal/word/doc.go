// Package word decides whether a candidate string under the pointer is a
// plausible English-like word.
//
// Classification is a fast syntactic heuristic, not a dictionary lookup.
// Candidates run through an ordered table of named rules and the first rule
// that rejects wins:
//
//	min-length, has-letter, numeric,
//	no-ascii-letter, single-letter, repeated-letter, syllable,
//	protocol, file-extension, markup, hex-id,
//	word-shape, hyphen, apostrophe
//
// Leading and trailing punctuation is stripped (see Clean) before any rule
// runs. The built-in order and thresholds are fixed; callers may append
// rules with WithRules or load them from a Lua script with LoadLuaRules.
package word
