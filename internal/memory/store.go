// Package memory implements the per-user conversation memory ledger:
// bounded, time-windowed record lists per user and category, plus the
// append-only exchange history.
package memory

import (
	"context"
	"time"

	"github.com/averyli/tutorchat/internal/model"
)

// Categories of memory records.
const (
	CategoryStudy = "study"
	CategoryFun   = "fun"
)

// Retention policy per category. Lists are newest-first, truncated to
// capacity on write, and expired lazily at read time.
const (
	StudyCapacity = 2
	StudyWindow   = time.Hour

	FunCapacity = 20
	FunWindow   = 7 * 24 * time.Hour
)

// policyFor returns the capacity and age window for a category. Unknown
// categories get the fun policy, the looser of the two.
func policyFor(category string) (int, time.Duration) {
	if category == CategoryStudy {
		return StudyCapacity, StudyWindow
	}
	return FunCapacity, FunWindow
}

// Store is the memory record backend. SQLite in production, in-memory for
// tests; retention policy is enforced identically by both.
type Store interface {
	// Record prepends a record to the user+category list, then truncates to
	// capacity and drops expired entries.
	Record(ctx context.Context, rec model.Record) error

	// Query returns the user+category list newest-first, already filtered
	// for expiry.
	Query(ctx context.Context, user, category string) ([]model.Record, error)

	// Clear removes all records for the user+category.
	Clear(ctx context.Context, user, category string) error

	// Close closes the store.
	Close() error
}
