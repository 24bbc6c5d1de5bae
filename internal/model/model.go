// Package model defines the core chat data types.
package model

import "time"

// BlockKind labels a segmented unit of a cleaned reply.
type BlockKind string

const (
	BlockIntroduction BlockKind = "introduction"
	BlockStep         BlockKind = "step"
	BlockParagraph    BlockKind = "paragraph"
	BlockTrailing     BlockKind = "trailing"
)

// TextBlock is one segmented, classified unit of a normalized reply.
// Ordinal is only set for step blocks and carries the number as it
// appeared in the source; gaps and out-of-order numbers are kept as-is.
type TextBlock struct {
	Kind    BlockKind `json:"kind"`
	Ordinal int       `json:"ordinal,omitempty"`
	Content string    `json:"content"`
	HasMath bool      `json:"has_math"`
}

// Record is a stored memory entry. Study records carry a prompt and a
// truncated reply summary in Content; fun records carry a type tag and
// the normalized lowercase reply in Content.
type Record struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Category  string    `json:"category"`
	Type      string    `json:"type,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Exchange is one prompt/reply pair in the append-only conversation ledger.
type Exchange struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	Mode         string    `json:"mode"`
	Prompt       string    `json:"prompt"`
	Reply        string    `json:"reply"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	TotalTokens  int       `json:"total_tokens"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidFunTypes are the allowed fun record type tags.
var ValidFunTypes = map[string]bool{
	"joke":     true,
	"riddle":   true,
	"fact":     true,
	"response": true,
}
