package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record appends one usage row. The log is append-only; there is no
// read path.
func (r *UsageRepository) Record(ctx context.Context, u domain.Usage) error {
	const q = `
INSERT INTO tool_usage (tool_id, session_id, processing_time, success, created_at)
VALUES (?,?,?,?,?);
`
	ts := u.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		u.ToolID, u.SessionID, u.ProcessingTime, u.Success, ts,
	)
	return err
}
