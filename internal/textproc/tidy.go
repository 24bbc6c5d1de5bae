package textproc

import (
	"regexp"
	"strings"
)

// longTextThreshold is the length past which unstructured text gets
// paragraph breaks inserted at sentence boundaries.
const longTextThreshold = 200

var (
	blankRunRe = regexp.MustCompile(`\n{3,}`)

	sentenceBreakRe   = regexp.MustCompile(`([.!?]) ([A-Z][a-z])`)
	numberedBreakRe   = regexp.MustCompile(`([.!?]) ([0-9]+[.)] )`)
	stepBreakRe       = regexp.MustCompile(`(?i)([.!?]) (step +[0-9]+)`)
	transitionBreakRe = regexp.MustCompile(`(?i)([.!?]) ((?:first|second|third|next|finally|therefore|thus|hence),? )`)
)

// Tidy collapses redundant whitespace, rejoins hard-wrapped lines, and for
// long unstructured text inserts paragraph breaks at sentence and transition
// boundaries. Runs before segmentation. Idempotent.
func Tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	text = joinWrapped(text)
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if len(text) > longTextThreshold && !hasStepMarkers(text) {
		text = paragraphBreaks(text)
	}

	return text
}

// joinWrapped merges lines that were hard-wrapped mid-sentence: a line ending
// in a lowercase letter, digit, or comma followed by a line starting with a
// lowercase letter. A trailing hyphen is a continued word and joins without a
// space. Blank lines are paragraph boundaries and never joined across.
func joinWrapped(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if len(out) == 0 || line == "" || out[len(out)-1] == "" {
			out = append(out, line)
			continue
		}

		prev := out[len(out)-1]
		if !startsLower(line) {
			out = append(out, line)
			continue
		}
		switch {
		case strings.HasSuffix(prev, "-"):
			out[len(out)-1] = prev[:len(prev)-1] + line
		case endsMidSentence(prev):
			out[len(out)-1] = prev + " " + line
		default:
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

func startsLower(line string) bool {
	return line != "" && line[0] >= 'a' && line[0] <= 'z'
}

func endsMidSentence(line string) bool {
	c := line[len(line)-1]
	return c == ',' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// paragraphBreaks inserts blank lines after sentence-ending punctuation
// followed by a capitalized word, and before numbered-list starts, step
// markers, and well-known transition words. Math spans are masked so a
// period inside a delimiter never splits.
func paragraphBreaks(text string) string {
	masked, spans := maskMath(text)

	masked = numberedBreakRe.ReplaceAllString(masked, "$1\n\n$2")
	masked = stepBreakRe.ReplaceAllString(masked, "$1\n\n$2")
	masked = transitionBreakRe.ReplaceAllString(masked, "$1\n\n$2")
	masked = sentenceBreakRe.ReplaceAllString(masked, "$1\n\n$2")

	return unmaskMath(masked, spans)
}

// hasStepMarkers reports whether any line already starts a step, in which
// case the text is structured and paragraph insertion stays out of the way.
func hasStepMarkers(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if stepStartRe.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
