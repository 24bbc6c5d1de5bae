package textproc

import (
	"regexp"
	"strings"
)

var (
	doubleEscapeRe = regexp.MustCompile(`\\{2,}([a-zA-Z])`)

	parenMathRe   = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)
	bracketMathRe = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)

	displayMathRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	inlineMathRe  = regexp.MustCompile(`\$([^$\n]+)\$`)

	exponentRe  = regexp.MustCompile(`\b([0-9]+|[a-zA-Z])[ \t]*\^[ \t]*(\{[^{}]+\}|[0-9a-zA-Z]+)`)
	subscriptRe = regexp.MustCompile(`\b([0-9]+|[a-zA-Z])[ \t]*_[ \t]*(\{[^{}]+\}|[0-9a-zA-Z]+)`)
	funcCallRe  = regexp.MustCompile(`\b(sqrt|sin|cos|tan|log|ln)\(([^()\n]*)\)`)
	equationRe  = regexp.MustCompile(`(^|[\s(])([a-zA-Z])[ \t]*=[ \t]*([^.,;\n]+)`)

	mathyRHSRe = regexp.MustCompile(`^[0-9a-zA-Z+\-*/^ ()\\{}_]+$`)
)

// strayDollar stands in for dollar signs while the count is odd. An odd
// count means at least one dollar is prose (a price, a shell variable);
// pairing it with a generated delimiter would rewrite the text differently
// on every run.
const strayDollar = '\x01'

// NormalizeMath repairs double-escaped control sequences, canonicalizes math
// delimiters to $...$ / $$...$$, trims delimiter interiors, and wraps bare
// math patterns (exponents, subscripts, named functions, simple equations)
// that are not already inside a delimiter. The auto-wraps are best-effort
// heuristics biased toward precision; missed math is acceptable, corrupted
// prose is not. Idempotent: wrapped output is recognized and skipped on
// subsequent runs, and when the dollar count is odd the delimiters cannot
// pair, so every dollar is treated as prose for that run.
func NormalizeMath(text string) string {
	text = doubleEscapeRe.ReplaceAllString(text, `\$1`)

	text = parenMathRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[2 : len(m)-2]
		return "$" + strings.TrimSpace(inner) + "$"
	})
	text = bracketMathRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[2 : len(m)-2]
		return "$$" + strings.TrimSpace(inner) + "$$"
	})

	stray := strings.Count(text, "$")%2 == 1
	if stray {
		text = strings.ReplaceAll(text, "$", string(strayDollar))
	}

	text = displayMathRe.ReplaceAllStringFunc(text, func(m string) string {
		return "$$" + strings.TrimSpace(m[2:len(m)-2]) + "$$"
	})
	text = inlineMathRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[1 : len(m)-1]
		if strings.HasPrefix(inner, "$") || strings.HasSuffix(inner, "$") {
			return m
		}
		return "$" + strings.TrimSpace(inner) + "$"
	})

	text = outsideMath(text, wrapFunctions)
	text = outsideMath(text, wrapExponents)
	text = outsideMath(text, wrapSubscripts)
	text = outsideMath(text, wrapEquations)

	if stray {
		text = strings.ReplaceAll(text, string(strayDollar), "$")
	}
	return text
}

// outsideMath applies a rewrite to the portions of text not already inside a
// math delimiter. Masking re-runs per stage because earlier stages introduce
// new delimited spans.
func outsideMath(text string, rewrite func(string) string) string {
	masked, spans := maskMath(text)
	return unmaskMath(rewrite(masked), spans)
}

func wrapExponents(text string) string {
	return replaceUnlessEscaped(text, exponentRe, func(groups []string) string {
		return "$" + groups[1] + "^" + braced(groups[2]) + "$"
	})
}

func wrapSubscripts(text string) string {
	return replaceUnlessEscaped(text, subscriptRe, func(groups []string) string {
		return "$" + groups[1] + "_" + braced(groups[2]) + "$"
	})
}

func wrapFunctions(text string) string {
	return replaceUnlessEscaped(text, funcCallRe, func(groups []string) string {
		if groups[1] == "sqrt" {
			return `$\sqrt{` + groups[2] + `}$`
		}
		return `$\` + groups[1] + "(" + groups[2] + ")$"
	})
}

// wrapEquations wraps "letter = expression" only when the right-hand side
// looks like math: restricted character set plus at least one digit or
// control sequence. Plain prose after an equals sign is left alone.
func wrapEquations(text string) string {
	return equationRe.ReplaceAllStringFunc(text, func(m string) string {
		groups := equationRe.FindStringSubmatch(m)
		rhs := strings.TrimSpace(groups[3])
		if !mathyRHSRe.MatchString(rhs) || !strings.ContainsAny(rhs, `0123456789\`) {
			return m
		}
		return groups[1] + "$" + groups[2] + " = " + rhs + "$"
	})
}

// replaceUnlessEscaped rewrites every match whose first character is not
// preceded by a backslash or a dollar sign (real or stray-escaped), so
// already-escaped LaTeX and delimiter-adjacent text stay untouched.
func replaceUnlessEscaped(text string, re *regexp.Regexp, build func(groups []string) string) string {
	var out strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && (text[start-1] == '\\' || text[start-1] == '$' || text[start-1] == strayDollar) {
			continue
		}

		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}

		out.WriteString(text[last:start])
		out.WriteString(build(groups))
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

func braced(s string) string {
	if strings.HasPrefix(s, "{") {
		return s
	}
	return "{" + s + "}"
}
