// Package textproc cleans raw model replies and segments them into
// renderable blocks. The passes compose as a fixed pipeline:
// Strip -> NormalizeMath -> Tidy -> Segment. Each pass is a pure function
// and the whole pipeline is idempotent, so replies reloaded from storage
// can be reprocessed safely.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// mathSymbols are Unicode symbols that mark a block as math-bearing.
const mathSymbols = "√∛∜∑∫∞±≤≥≠≈∆∂∇∈∉⊂⊃∪∩"

var controlSeqRe = regexp.MustCompile(`\\[a-zA-Z]+`)

// ClassifyMath reports whether text contains mathematical content: a math
// delimiter, a LaTeX control sequence, exponent/subscript markers, a known
// math symbol, or a Greek letter. This is the single classifier used by
// every stage; extend the symbol set here only.
func ClassifyMath(text string) bool {
	if strings.ContainsAny(text, "$^_") {
		return true
	}
	if strings.ContainsAny(text, mathSymbols) {
		return true
	}
	if controlSeqRe.MatchString(text) {
		return true
	}
	for _, r := range text {
		if unicode.Is(unicode.Greek, r) {
			return true
		}
	}
	return false
}
