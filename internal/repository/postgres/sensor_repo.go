package postgres

import (
	"context"

	"github.com/hacknova/airwatch/internal/errs"
	"github.com/hacknova/airwatch/internal/model"
)

// SensorRepo implements SensorRepository using PostgreSQL.
type SensorRepo struct{ db *DB }

// NewSensorRepo constructs a sensor repository.
func NewSensorRepo(db *DB) *SensorRepo { return &SensorRepo{db: db} }

// Create inserts a provisioned sensor row.
func (r *SensorRepo) Create(ctx context.Context, s *model.Sensor) error {
	const q = `
INSERT INTO sensors (id, name, lat, lng, status)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.Name, s.Lat, s.Lng, s.Status)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// List selects all sensors, not filtered by recency or status.
func (r *SensorRepo) List(ctx context.Context) ([]model.Sensor, error) {
	const q = `
SELECT id, name, lat, lng, status, created_at
FROM sensors
ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Sensor
	for rows.Next() {
		var s model.Sensor
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lng, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
