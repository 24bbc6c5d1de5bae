package textproc

import (
	"regexp"
	"strings"
)

var (
	boldTagRe   = regexp.MustCompile(`(?is)<(?:strong|b)>(.*?)</(?:strong|b)>`)
	italicTagRe = regexp.MustCompile(`(?is)<(?:em|i)>(.*?)</(?:em|i)>`)
	underTagRe  = regexp.MustCompile(`(?is)<u>(.*?)</u>`)
	codeTagRe   = regexp.MustCompile(`(?is)<code>(.*?)</code>`)
	brTagRe     = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenRe     = regexp.MustCompile(`(?i)<p(?:\s[^<>]*)?>`)
	pCloseRe    = regexp.MustCompile(`(?i)</p>`)
	anyTagRe    = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*(?:\s[^<>]*)?/?>`)

	numericCiteRe = regexp.MustCompile(`\[\d+\]`)
	bracketRe     = regexp.MustCompile(`\[([^\[\]]*)\]`)

	sourceLineRe  = regexp.MustCompile(`(?im)^sources?:[ \t]*.*$`)
	refLineRe     = regexp.MustCompile(`(?im)^references?:[ \t]*.*$`)
	sourcesHeadRe = regexp.MustCompile(`(?ims)^\*\*sources?\*\*.*\z`)
	footerRe      = regexp.MustCompile(`(?ims)^---[ \t]*$.*?sources?.*\z`)

	// Neighbor guards keep these from eating the boundary between two
	// adjacent real emphasis spans.
	emptyBoldRe   = regexp.MustCompile(`(^|[^*])\*\*\s+\*\*($|[^*])`)
	emptyItalicRe = regexp.MustCompile(`(^|[^*])\*\s+\*($|[^*])`)

	spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)
)

// bracketMathChars make a bracketed span look like an index or array
// expression rather than a citation marker.
const bracketMathChars = `+-*/=<>^_{}\`

// Strip converts foreign markup to Markdown, removes citation markers and
// source footers, and collapses the empty emphasis those removals leave
// behind. Delimited math and its interior are never altered here; math
// repair belongs to NormalizeMath, which runs afterward.
func Strip(raw string) string {
	text, spans := maskMath(raw)

	text = convertMarkup(text)
	text = numericCiteRe.ReplaceAllString(text, "")
	text = removeBracketMarkers(text)
	text = stripSourceFooters(text)
	text = emptyBoldRe.ReplaceAllString(text, "$1$2")
	text = emptyItalicRe.ReplaceAllString(text, "$1$2")
	text = spaceRunRe.ReplaceAllString(text, " ")

	return unmaskMath(text, spans)
}

// convertMarkup maps known HTML inline tags to the Markdown equivalents and
// drops any other tag, keeping its text content.
func convertMarkup(text string) string {
	text = boldTagRe.ReplaceAllString(text, "**$1**")
	text = italicTagRe.ReplaceAllString(text, "*$1*")
	text = underTagRe.ReplaceAllString(text, "*$1*")
	text = codeTagRe.ReplaceAllString(text, "`$1`")
	text = brTagRe.ReplaceAllString(text, "\n")
	text = pCloseRe.ReplaceAllString(text, "\n\n")
	text = pOpenRe.ReplaceAllString(text, "")
	text = anyTagRe.ReplaceAllString(text, "")
	return text
}

// removeBracketMarkers drops bracketed word/phrase markers like
// "[source name]" but keeps brackets that are plausibly math: content with an
// operator character, a bracket opened by \left, or a bracket inside an open
// LaTeX environment. Textual heuristics, not a parser; adversarial input can
// be over- or under-preserved.
func removeBracketMarkers(text string) string {
	var out strings.Builder
	last := 0
	for _, loc := range bracketRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		inner := text[loc[2]:loc[3]]

		if strings.ContainsAny(inner, bracketMathChars) ||
			strings.HasSuffix(text[:start], `\left`) ||
			inOpenEnvironment(text[:start]) {
			continue
		}

		out.WriteString(text[last:start])
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// inOpenEnvironment reports whether the text before a bracket contains an
// unclosed \begin{...} environment.
func inOpenEnvironment(before string) bool {
	return strings.Count(before, `\begin{`) > strings.Count(before, `\end{`)
}

func stripSourceFooters(text string) string {
	text = sourceLineRe.ReplaceAllString(text, "")
	text = refLineRe.ReplaceAllString(text, "")
	text = sourcesHeadRe.ReplaceAllString(text, "")
	text = footerRe.ReplaceAllString(text, "")
	return text
}
