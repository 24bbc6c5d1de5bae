package memory

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/averyli/tutorchat/internal/model"
	"github.com/averyli/tutorchat/internal/similarity"
)

// Truncation bounds for stored study records.
const (
	maxPromptLen  = 100
	maxSummaryLen = 200
)

// Memory wraps a Store with the failure semantics the chat flow needs:
// storage errors are logged and degrade to empty-state, never propagated.
// A broken store must not block sending a message.
type Memory struct {
	store Store
	log   *zap.Logger
}

// New wraps a store. A nil logger defaults to a no-op logger.
func New(store Store, log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{store: store, log: log}
}

// RecordStudy stores a prompt/reply pair for study or research context.
// The prompt and summary are truncated to their bounds.
func (m *Memory) RecordStudy(ctx context.Context, user, prompt, reply string) {
	err := m.store.Record(ctx, model.Record{
		User:      user,
		Category:  CategoryStudy,
		Prompt:    truncate(prompt, maxPromptLen, ""),
		Content:   truncate(reply, maxSummaryLen, "..."),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		m.log.Warn("record study memory", zap.String("user", user), zap.Error(err))
	}
}

// RecordFun stores the fingerprint of a fun-mode reply that was shown to
// the user. Content is normalized to lowercase for duplicate comparison.
func (m *Memory) RecordFun(ctx context.Context, user, itemType, content string) {
	if !model.ValidFunTypes[itemType] {
		itemType = "response"
	}
	err := m.store.Record(ctx, model.Record{
		User:      user,
		Category:  CategoryFun,
		Type:      itemType,
		Content:   strings.ToLower(strings.TrimSpace(content)),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		m.log.Warn("record fun memory", zap.String("user", user), zap.Error(err))
	}
}

// Study returns the user's study records, newest first. Empty on any
// storage failure.
func (m *Memory) Study(ctx context.Context, user string) []model.Record {
	records, err := m.store.Query(ctx, user, CategoryStudy)
	if err != nil {
		m.log.Warn("query study memory", zap.String("user", user), zap.Error(err))
		return nil
	}
	return records
}

// RecentFun returns the user's fun records, newest first. Empty on any
// storage failure.
func (m *Memory) RecentFun(ctx context.Context, user string) []model.Record {
	records, err := m.store.Query(ctx, user, CategoryFun)
	if err != nil {
		m.log.Warn("query fun memory", zap.String("user", user), zap.Error(err))
		return nil
	}
	return records
}

// IsDuplicateFun reports whether content is a near-duplicate of a recent
// fun record of the same type.
func (m *Memory) IsDuplicateFun(ctx context.Context, user, itemType, content string) bool {
	normalized := strings.ToLower(strings.TrimSpace(content))
	for _, r := range m.RecentFun(ctx, user) {
		if r.Type != itemType {
			continue
		}
		if r.Content == normalized || similarity.IsDuplicate(r.Content, normalized) {
			return true
		}
	}
	return false
}

// Clear removes a user's records in the given category.
func (m *Memory) Clear(ctx context.Context, user, category string) {
	if err := m.store.Clear(ctx, user, category); err != nil {
		m.log.Warn("clear memory", zap.String("user", user),
			zap.String("category", category), zap.Error(err))
	}
}

func truncate(s string, max int, marker string) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + marker
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
