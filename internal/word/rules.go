package word

import (
	"regexp"
	"strings"
)

// MinLength is the shortest cleaned candidate that can be accepted.
const MinLength = 2

// letterClass matches ASCII and Latin-1/Latin Extended-A/B letters.
const letterClass = `[a-zA-Z\x{00C0}-\x{024F}]`

var (
	reHasLetter     = regexp.MustCompile(letterClass)
	reDigits        = regexp.MustCompile(`^\d+$`)
	reDigitsSuffix  = regexp.MustCompile(`^\d+[a-zA-Z]{1,2}$`)
	reNoASCIILetter = regexp.MustCompile(`^[^a-zA-Z]*$`)
	reSingleLetter  = regexp.MustCompile(`^[a-zA-Z]{1}$`)
	reRepeated      = regexp.MustCompile(`(?i)^(` + repeatedRuns() + `)$`)
	reSyllable      = regexp.MustCompile(`(?i)^(` + strings.Join(syllables, "|") + `)$`)
	reProtocol      = regexp.MustCompile(`(?i)^(www|http|https|ftp|mailto|tel)$`)
	reFileExt       = regexp.MustCompile(`(?i)^(jpg|jpeg|png|gif|svg|pdf|doc|docx|xls|xlsx|ppt|pptx|zip|rar|tar|gz)$`)
	reMarkup        = regexp.MustCompile(`(?i)^(div|span|img|src|alt|href|class|style|script|link|meta|head|body|html|css|js)$`)
	reHexID         = regexp.MustCompile(`(?i)^[0-9a-f]{8,}$`)
	reWordShape     = regexp.MustCompile(`^` + letterClass + `([a-zA-Z\x{00C0}-\x{024F}'-]*` + letterClass + `)?$`)
	reBadHyphen     = regexp.MustCompile(`^-|-$|--`)
	reBadApostrophe = regexp.MustCompile(`^'|'$|''`)
	reContraction   = regexp.MustCompile(`[a-zA-Z]'[a-zA-Z]`)
)

// syllables is the closed set of short consonant-vowel syllables that show
// up as noise in transliterated or generated text.
var syllables = []string{
	"la", "le", "li", "lo", "lu", "da", "de", "di", "do", "du",
	"na", "ne", "ni", "no", "nu", "ta", "te", "ti", "to", "tu",
	"ra", "re", "ri", "ro", "ru", "sa", "se", "si", "so", "su",
	"ma", "me", "mi", "mo", "mu", "ba", "be", "bi", "bo", "bu",
	"ca", "ce", "ci", "co", "cu", "fa", "fe", "fi", "fo", "fu",
	"ga", "ge", "gi", "go", "gu", "ha", "he", "hi", "ho", "hu",
	"ja", "je", "ji", "jo", "ju", "ka", "ke", "ki", "ko", "ku",
	"pa", "pe", "pi", "po", "pu", "qa", "qe", "qi", "qo", "qu",
	"va", "ve", "vi", "vo", "vu", "wa", "we", "wi", "wo", "wu",
	"xa", "xe", "xi", "xo", "xu", "ya", "ye", "yi", "yo", "yu",
	"za", "ze", "zi", "zo", "zu",
}

// repeatedRuns builds "aa+|bb+|...|zz+".
func repeatedRuns() string {
	runs := make([]string, 0, 26)
	for c := 'a'; c <= 'z'; c++ {
		runs = append(runs, string([]rune{c, c})+"+")
	}
	return strings.Join(runs, "|")
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// builtinRules is evaluated in order; cheap checks come first.
var builtinRules = []Rule{
	{Name: "min-length", Reject: func(s string) bool { return textLen(s) < MinLength }},
	{Name: "has-letter", Reject: func(s string) bool { return !reHasLetter.MatchString(s) }},
	{Name: "numeric", Reject: func(s string) bool {
		return reDigits.MatchString(s) || reDigitsSuffix.MatchString(s)
	}},
	{Name: "no-ascii-letter", Reject: matches(reNoASCIILetter)},
	{Name: "single-letter", Reject: matches(reSingleLetter)},
	{Name: "repeated-letter", Reject: matches(reRepeated)},
	{Name: "syllable", Reject: matches(reSyllable)},
	{Name: "protocol", Reject: matches(reProtocol)},
	{Name: "file-extension", Reject: matches(reFileExt)},
	{Name: "markup", Reject: matches(reMarkup)},
	{Name: "hex-id", Reject: matches(reHexID)},
	{Name: "word-shape", Reject: func(s string) bool { return !reWordShape.MatchString(s) }},
	{Name: "hyphen", Reject: func(s string) bool {
		return strings.Contains(s, "-") && reBadHyphen.MatchString(s)
	}},
	{Name: "apostrophe", Reject: func(s string) bool {
		if !strings.Contains(s, "'") {
			return false
		}
		return reBadApostrophe.MatchString(s) || !reContraction.MatchString(s)
	}},
}
