package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/repository"
)

// ReadingRepo implements ReadingRepository using PostgreSQL.
type ReadingRepo struct{ db *DB }

// NewReadingRepo constructs a reading repository.
func NewReadingRepo(db *DB) *ReadingRepo { return &ReadingRepo{db: db} }

// Insert appends one reading. sensor_id is intentionally unchecked against
// the sensors table: readings from unknown sensors are accepted.
func (r *ReadingRepo) Insert(ctx context.Context, rd *model.Reading) error {
	const q = `
INSERT INTO readings (id, sensor_id, pm25, pm10, ts)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, rd.ID, rd.SensorID, rd.PM25, rd.PM10, rd.Timestamp)
	return err
}

// Query selects readings since the given instant, ascending by timestamp,
// capped at limit rows.
func (r *ReadingRepo) Query(ctx context.Context, sensorID string, since time.Time, limit int) ([]model.Reading, error) {
	if limit <= 0 || limit > repository.MaxQueryRows {
		limit = repository.MaxQueryRows
	}

	const qAll = `
SELECT id, sensor_id, pm25, pm10, ts
FROM readings
WHERE ts >= $1
ORDER BY ts ASC
LIMIT $2`
	const qOne = `
SELECT id, sensor_id, pm25, pm10, ts
FROM readings
WHERE ts >= $1 AND sensor_id = $2
ORDER BY ts ASC
LIMIT $3`

	var (
		rows pgx.Rows
		err  error
	)
	if sensorID == "" {
		rows, err = r.db.Pool.Query(ctx, qAll, since, limit)
	} else {
		rows, err = r.db.Pool.Query(ctx, qOne, since, sensorID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reading
	for rows.Next() {
		var rd model.Reading
		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.PM25, &rd.PM10, &rd.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}
