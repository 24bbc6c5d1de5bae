package textproc

import "github.com/averyli/tutorchat/internal/model"

// Normalize runs the full text-cleaning pipeline:
// markup/citation stripping, math repair, whitespace normalization.
func Normalize(raw string) string {
	return Tidy(NormalizeMath(Strip(raw)))
}

// Process normalizes raw reply text and segments it into blocks.
// stepEligible enables numbered-step detection (study/research output).
func Process(raw string, stepEligible bool) []model.TextBlock {
	return Segment(Normalize(raw), stepEligible)
}
