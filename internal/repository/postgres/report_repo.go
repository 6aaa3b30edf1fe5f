package postgres

import (
	"context"

	"github.com/hacknova/airwatch/internal/model"
)

// ReportRepo implements ReportRepository using PostgreSQL.
type ReportRepo struct{ db *DB }

// NewReportRepo constructs a report repository.
func NewReportRepo(db *DB) *ReportRepo { return &ReportRepo{db: db} }

// Create appends a new report row.
func (r *ReportRepo) Create(ctx context.Context, rp *model.Report) error {
	const q = `
INSERT INTO reports (id, type, lat, lng, description, status, ts)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, rp.ID, rp.Type, rp.Lat, rp.Lng, rp.Description, rp.Status, rp.Timestamp)
	return err
}

// ListAll selects every report, most recent first. Unbounded: report volume
// is citizen-paced, not sensor-paced.
func (r *ReportRepo) ListAll(ctx context.Context) ([]model.Report, error) {
	const q = `
SELECT id, type, lat, lng, description, status, ts
FROM reports
ORDER BY ts DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Report
	for rows.Next() {
		var rp model.Report
		if err := rows.Scan(&rp.ID, &rp.Type, &rp.Lat, &rp.Lng, &rp.Description, &rp.Status, &rp.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}
