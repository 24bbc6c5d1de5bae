package memory

import (
	"context"
	"fmt"
	"strings"
)

// FormatContext renders a user's study memory as a numbered
// "previous question -> summary" block suitable for prepending to a new
// prompt. Returns the empty string when no memory exists, so an empty or
// malformed context header is never injected.
func (m *Memory) FormatContext(ctx context.Context, user string) string {
	records := m.Study(ctx, user)
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Context from recent questions:\n")
	for i, r := range records {
		fmt.Fprintf(&b, "%d. Previous question: %q -> %s\n", i+1, r.Prompt, r.Content)
	}
	b.WriteString("\n")
	return b.String()
}
