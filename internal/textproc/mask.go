package textproc

import (
	"regexp"
	"strconv"
	"strings"
)

// mathSpanRe matches delimited math in any of the accepted dialects.
// Display math is listed first so $$...$$ is not consumed as two inline spans.
var mathSpanRe = regexp.MustCompile(`(?s)\$\$.+?\$\$|\$[^$\n]+\$|\\\(.+?\\\)|\\\[.+?\\\]`)

// maskMath replaces every delimited math span with an opaque placeholder so
// the text passes cannot touch delimiter interiors. The placeholders use NUL
// sentinels, which no pass pattern matches. Restore with unmaskMath.
func maskMath(text string) (string, []string) {
	var spans []string
	masked := mathSpanRe.ReplaceAllStringFunc(text, func(m string) string {
		spans = append(spans, m)
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})
	return masked, spans
}

func unmaskMath(text string, spans []string) string {
	for i := len(spans) - 1; i >= 0; i-- {
		text = strings.Replace(text, "\x00"+strconv.Itoa(i)+"\x00", spans[i], 1)
	}
	return text
}
