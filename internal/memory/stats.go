package memory

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string          `json:"db_path"`
	DBSizeBytes    int64           `json:"db_size_bytes"`
	TotalRecords   int             `json:"total_records"`
	TotalExchanges int             `json:"total_exchanges"`
	Users          []UserStats     `json:"users"`
	Categories     []CategoryStats `json:"categories"`
}

// UserStats holds per-user counts.
type UserStats struct {
	User      string `json:"user"`
	Records   int    `json:"records"`
	Exchanges int    `json:"exchanges"`
}

// CategoryStats holds per-category record counts.
type CategoryStats struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&st.TotalRecords)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exchanges`).Scan(&st.TotalExchanges)

	rows, err := s.db.QueryContext(ctx, `
		SELECT user,
		       (SELECT COUNT(*) FROM records r WHERE r.user = e.user) AS records,
		       COUNT(*) AS exchanges
		FROM exchanges e GROUP BY user ORDER BY exchanges DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var u UserStats
		rows.Scan(&u.User, &u.Records, &u.Exchanges)
		st.Users = append(st.Users, u)
	}

	catRows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM records GROUP BY category ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var c CategoryStats
		catRows.Scan(&c.Category, &c.Count)
		st.Categories = append(st.Categories, c)
	}

	return st, nil
}
