package repository

import (
	"context"
	"time"

	"github.com/hacknova/airwatch/internal/model"
)

// MaxQueryRows bounds any single readings query.
const MaxQueryRows = 1000

// SensorRepository stores provisioned sensors.
type SensorRepository interface {
	// Create inserts a sensor; ErrAlreadyExists on duplicate id.
	Create(ctx context.Context, s *model.Sensor) error
	// List returns every known sensor, unfiltered.
	List(ctx context.Context) ([]model.Sensor, error)
}

// ReadingRepository is the append-only log of particulate samples.
type ReadingRepository interface {
	// Insert appends one reading.
	Insert(ctx context.Context, r *model.Reading) error
	// Query returns readings with timestamp >= since, optionally filtered to
	// one sensor (sensorID == "" means all), ascending by timestamp, capped
	// at limit rows (never more than MaxQueryRows).
	Query(ctx context.Context, sensorID string, since time.Time, limit int) ([]model.Reading, error)
}
