package toonsafe

import (
	"regexp"
	"strings"
)

// The rewrite rules run in this order. None of the replacement outputs fall
// in a character class a later rule touches, so a single pass is idempotent.
var (
	curlySingleRe = regexp.MustCompile("[\u2018\u2019]")
	curlyDoubleRe = regexp.MustCompile("[\u201C\u201D]")
	doubleQuoteRe = regexp.MustCompile(`"`)
	zeroWidthRe   = regexp.MustCompile(`[\x{200B}\x{200C}\x{200D}\x{FEFF}]`)
	nbspRe        = regexp.MustCompile(`\x{00A0}`)
	controlRe     = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	backslashRe   = regexp.MustCompile(`\\`)
)

// fenceRe matches the first markdown code fence, optionally tagged with a
// format hint. Non-greedy, so the first closing fence terminates extraction.
var fenceRe = regexp.MustCompile("(?s)```[\\w-]*[ \t]*\\n?(.*?)```")

// ExtractPayload returns the trimmed interior of the first fenced block in
// text, or the trimmed text itself when no fence is present. LLM responses
// routinely wrap payloads in ```toon ...``` or ```json ...``` blocks and
// append prose after the closing fence; everything outside the first block
// is discarded.
func ExtractPayload(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// Sanitize recursively rewrites the string leaves of v, removing characters
// that conflict with the TOON grammar: curly and straight quotes become
// apostrophes, zero-width code points and ASCII control characters are
// dropped, non-breaking spaces become regular spaces, and backslashes become
// forward slashes. The input is folded through Normalize first, so typed Go
// containers ([]string, map[string]int) are covered too. Object keys,
// container shapes and non-string scalars are preserved exactly. Sanitize is
// total and idempotent.
func Sanitize(v Value) Value {
	return sanitizeValue(Normalize(v))
}

func sanitizeValue(v Value) Value {
	switch val := v.(type) {
	case string:
		return sanitizeString(val)
	case Object:
		out := make(Object, len(val))
		for key, item := range val {
			out[key] = sanitizeValue(item)
		}
		return out
	case Array:
		out := make(Array, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		// Numbers, booleans and nil pass through untouched.
		return val
	}
}

func sanitizeString(s string) string {
	s = curlySingleRe.ReplaceAllString(s, "'")
	// Curly doubles become apostrophes too; mapping them to straight double
	// quotes would reintroduce a character the grammar has to escape.
	s = curlyDoubleRe.ReplaceAllString(s, "'")
	s = doubleQuoteRe.ReplaceAllString(s, "'")
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = nbspRe.ReplaceAllString(s, " ")
	s = controlRe.ReplaceAllString(s, "")
	s = backslashRe.ReplaceAllString(s, "/")
	return s
}
