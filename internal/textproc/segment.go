package textproc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/averyli/tutorchat/internal/model"
)

// stepStartRe matches the step notations seen in model output:
// "Step 3: ...", "Step 3. ...", "3. ...", "3) ...".
var stepStartRe = regexp.MustCompile(`(?i)^(?:step\s+(\d+)[:.]?\s*(.*)|(\d+)\.\s+(.*)|(\d+)\)\s+(.*))$`)

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Segment splits cleaned text into an ordered block sequence. With
// stepEligible set, lines matching a step notation open numbered step
// blocks; ordinals come straight from the source and are never renumbered.
// Lines before the first step accumulate into one introduction block. Blank
// lines separate but never open or close a block; only a step start or the
// end of input closes one. When no step ever matches, the text falls back
// to blank-line-delimited paragraphs.
func Segment(text string, stepEligible bool) []model.TextBlock {
	if !stepEligible {
		return paragraphBlocks(text)
	}

	var blocks []model.TextBlock
	var intro []string
	var step []string
	ordinal := 0
	inStep := false

	flushIntro := func() {
		if len(intro) == 0 {
			return
		}
		blocks = append(blocks, newBlock(model.BlockIntroduction, 0, intro))
		intro = nil
	}
	flushStep := func() {
		if !inStep {
			return
		}
		blocks = append(blocks, newBlock(model.BlockStep, ordinal, step))
		step = nil
		inStep = false
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := stepStartRe.FindStringSubmatch(trimmed); m != nil {
			flushIntro()
			flushStep()
			n, rest := parseStepMatch(m)
			ordinal = n
			inStep = true
			if rest != "" {
				step = append(step, rest)
			}
			continue
		}

		if inStep {
			step = append(step, trimmed)
		} else {
			intro = append(intro, trimmed)
		}
	}
	flushStep()

	// Intro lines without a single step mean the text is unstructured;
	// paragraphs are the right shape then, not a lone introduction.
	if len(blocks) == 0 {
		return paragraphBlocks(text)
	}
	return blocks
}

// parseStepMatch pulls the ordinal and remainder out of whichever step
// notation matched.
func parseStepMatch(m []string) (int, string) {
	switch {
	case m[1] != "":
		n, _ := strconv.Atoi(m[1])
		return n, strings.TrimSpace(m[2])
	case m[3] != "":
		n, _ := strconv.Atoi(m[3])
		return n, strings.TrimSpace(m[4])
	default:
		n, _ := strconv.Atoi(m[5])
		return n, strings.TrimSpace(m[6])
	}
}

// paragraphBlocks splits on blank lines, one paragraph block each. Input
// with no breaks at all yields a single block holding the whole text.
func paragraphBlocks(text string) []model.TextBlock {
	var blocks []model.TextBlock
	for _, p := range paragraphSplitRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		blocks = append(blocks, newBlock(model.BlockParagraph, 0, []string{p}))
	}

	if len(blocks) == 0 {
		blocks = append(blocks, newBlock(model.BlockParagraph, 0, []string{strings.TrimSpace(text)}))
	}
	return blocks
}

func newBlock(kind model.BlockKind, ordinal int, lines []string) model.TextBlock {
	content := strings.Join(lines, "\n")
	return model.TextBlock{
		Kind:    kind,
		Ordinal: ordinal,
		Content: content,
		HasMath: ClassifyMath(content),
	}
}
