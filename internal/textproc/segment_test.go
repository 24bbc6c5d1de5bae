package textproc

import (
	"testing"

	"github.com/averyli/tutorchat/internal/model"
)

func TestSegmentNumberedSteps(t *testing.T) {
	blocks := Segment("Step 1: Identify the values.\nStep 2: Apply the formula $x^2$.", true)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != model.BlockStep {
			t.Errorf("block %d kind = %q, want step", i, b.Kind)
		}
	}
	if blocks[0].Ordinal != 1 || blocks[1].Ordinal != 2 {
		t.Errorf("ordinals = %d, %d, want 1, 2", blocks[0].Ordinal, blocks[1].Ordinal)
	}
	if blocks[0].Content != "Identify the values." {
		t.Errorf("block 0 content = %q", blocks[0].Content)
	}
	if blocks[0].HasMath {
		t.Error("block 0 flagged as math")
	}
	if !blocks[1].HasMath {
		t.Error("block 1 not flagged as math")
	}
}

func TestSegmentStepNotations(t *testing.T) {
	blocks := Segment("1. first item\n2) second item\nStep 3. third item", true)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	wantOrd := []int{1, 2, 3}
	wantContent := []string{"first item", "second item", "third item"}
	for i, b := range blocks {
		if b.Ordinal != wantOrd[i] || b.Content != wantContent[i] {
			t.Errorf("block %d = (%d, %q), want (%d, %q)", i, b.Ordinal, b.Content, wantOrd[i], wantContent[i])
		}
	}
}

func TestSegmentKeepsSourceOrdinals(t *testing.T) {
	blocks := Segment("Step 1: a\nStep 3: c", true)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Ordinal != 1 || blocks[1].Ordinal != 3 {
		t.Errorf("ordinals = %d, %d, want 1, 3", blocks[0].Ordinal, blocks[1].Ordinal)
	}
}

func TestSegmentIntroduction(t *testing.T) {
	blocks := Segment("Let me explain the approach.\nStep 1: Do this.", true)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Kind != model.BlockIntroduction {
		t.Errorf("block 0 kind = %q, want introduction", blocks[0].Kind)
	}
	if blocks[0].Content != "Let me explain the approach." {
		t.Errorf("intro content = %q", blocks[0].Content)
	}
	if blocks[1].Kind != model.BlockStep || blocks[1].Ordinal != 1 {
		t.Errorf("block 1 = (%q, %d), want (step, 1)", blocks[1].Kind, blocks[1].Ordinal)
	}
}

func TestSegmentStepContinuation(t *testing.T) {
	// A blank line inside a step separates but does not close it.
	blocks := Segment("Step 1: a\n\ncontinued line", true)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "a\ncontinued line" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestSegmentFallsBackToParagraphs(t *testing.T) {
	blocks := Segment("First paragraph here.\n\nSecond paragraph here.", true)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != model.BlockParagraph {
			t.Errorf("block %d kind = %q, want paragraph", i, b.Kind)
		}
	}
}

func TestSegmentNotStepEligible(t *testing.T) {
	blocks := Segment("Step 1: looks like a step", false)
	if len(blocks) != 1 || blocks[0].Kind != model.BlockParagraph {
		t.Fatalf("got %+v, want one paragraph block", blocks)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	blocks := Segment("", true)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Kind != model.BlockParagraph || blocks[0].Content != "" {
		t.Errorf("got %+v, want empty paragraph block", blocks[0])
	}
}
