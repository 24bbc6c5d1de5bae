package memory

import (
	"context"
	"database/sql"
	"time"

	"github.com/averyli/tutorchat/internal/model"
)

// ExportData is a full dump of one user's stored state.
type ExportData struct {
	User      string           `json:"user"`
	Records   []model.Record   `json:"records"`
	Exchanges []model.Exchange `json:"exchanges"`
}

// Export returns everything stored for a user: memory records in all
// categories (including expired ones, for audit) and the conversation
// ledger oldest-first.
func (s *SQLiteStore) Export(ctx context.Context, user string) (*ExportData, error) {
	data := &ExportData{User: user}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, category, type, prompt, content, created_at
		 FROM records WHERE user = ? ORDER BY created_at DESC, id DESC`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r model.Record
		var typ, prompt sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.User, &r.Category, &typ, &prompt, &r.Content, &createdAt); err != nil {
			return nil, err
		}
		r.Type = typ.String
		r.Prompt = prompt.String
		r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		data.Records = append(data.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exchanges, err := s.Exchanges(ctx, user)
	if err != nil {
		return nil, err
	}
	data.Exchanges = exchanges

	return data, nil
}
