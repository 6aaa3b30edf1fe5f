// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Sensor statuses.
const (
	SensorActive   = "active"
	SensorInactive = "inactive"
)

// Report statuses. Reports are created Pending; no transition path exists yet.
const (
	ReportPending = "Pending"
)

// Sensor is a provisioned measurement station. Immutable once created.
type Sensor struct {
	ID        string    `json:"id"` // stable, assigned out-of-band (e.g. "S-001")
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"-"`
}

// Reading is a single particulate sample. Append-only; SensorID is NOT
// validated against the sensor set — dangling ids are accepted.
type Reading struct {
	ID        uuid.UUID `json:"-"`
	SensorID  string    `json:"sensorId"`
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
	Timestamp time.Time `json:"timestamp"`
}

// HourlyPoint is one aggregation bucket: the hour start and the arithmetic
// means of all readings whose timestamps fall inside that clock hour.
type HourlyPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
}

// Report is a citizen-filed incident. Append-only.
type Report struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// User represents an account. The password is stored as a salted one-way
// hash, never the plaintext.
type User struct {
	ID        uuid.UUID
	Email     string // unique
	Name      string
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-user auth salt
	CreatedAt time.Time
}

// Tokens collects issued session tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// Alert levels produced by threshold classification.
const (
	AlertWarning  = "WARNING"
	AlertCritical = "CRITICAL"
)

// AlertEvent is derived from a single reading and never persisted; it exists
// only transiently on the broadcast channel.
type AlertEvent struct {
	SensorID string  `json:"sensorId"`
	Level    string  `json:"level"`
	PM25     float64 `json:"pm25"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Message  string  `json:"message"`
}
