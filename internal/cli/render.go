package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/averyli/tutorchat/internal/chat"
	"github.com/averyli/tutorchat/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stepStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// renderResult formats an exchange for terminal display: mode header,
// blocks, and a token footer.
func renderResult(r *chat.Result) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(r.ModeLabel))
	b.WriteString("\n\n")
	b.WriteString(renderBlocks(r.Blocks))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"tokens in=%d out=%d total=%d",
		r.Exchange.InputTokens, r.Exchange.OutputTokens, r.Exchange.TotalTokens)))
	return b.String()
}

func renderBlocks(blocks []model.TextBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		content := blk.Content
		if blk.HasMath {
			content = mathStyle.Render(content)
		}
		if blk.Kind == model.BlockStep {
			parts = append(parts, stepStyle.Render(fmt.Sprintf("Step %d", blk.Ordinal))+"\n"+content)
		} else {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n")
}
