package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/hacknova/airwatch/internal/aggregate"
	"github.com/hacknova/airwatch/internal/alert"
	"github.com/hacknova/airwatch/internal/broadcast"
	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/repository"
)

// historyWindow is the lookback for the sensor history view.
const historyWindow = 24 * time.Hour

// IngestReading is one sample as posted by the sensor feed. Lat/Lng/Type/Name
// ride along for the live map and alerts; only the measurement is persisted.
type IngestReading struct {
	SensorID  string
	PM25      float64
	PM10      float64
	Lat       float64
	Lng       float64
	Type      string
	Name      string
	Timestamp time.Time // zero means server-assigned
}

// SensorUpdate is the live-feed payload mirrored to subscribers on every
// ingested sample, persisted or not.
type SensorUpdate struct {
	SensorID string  `json:"sensorId"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type,omitempty"`
	Name     string  `json:"name,omitempty"`
}

// TelemetryService covers ingestion, history aggregation and the sensor set.
type TelemetryService interface {
	// Record ingests one sample best-effort: persistence failures are logged,
	// alert evaluation and fan-out always run.
	Record(ctx context.Context, in IngestReading)
	// History returns hourly mean points over the last 24 hours, ascending.
	History(ctx context.Context, sensorID string) ([]model.HourlyPoint, error)
	// ListSensors returns every provisioned sensor.
	ListSensors(ctx context.Context) ([]model.Sensor, error)
	// ProvisionSensor registers a new sensor.
	ProvisionSensor(ctx context.Context, s model.Sensor) (model.Sensor, error)
}

type TelemetryServiceImpl struct {
	readings repository.ReadingRepository
	sensors  repository.SensorRepository
	pub      broadcast.Publisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewTelemetryService constructs TelemetryService with required dependencies.
func NewTelemetryService(
	readings repository.ReadingRepository,
	sensors repository.SensorRepository,
	pub broadcast.Publisher,
	logger *zap.Logger,
) *TelemetryServiceImpl {
	return &TelemetryServiceImpl{
		readings: readings,
		sensors:  sensors,
		pub:      pub,
		logger:   logger,
		now:      time.Now,
	}
}

// Record appends the reading, judges it against alert thresholds, and pushes
// the live update. The write is fire-and-forget: a storage failure must never
// keep alerts or the live feed from going out, so it is logged and dropped.
// The sensor id is not validated against the sensor set.
func (s *TelemetryServiceImpl) Record(ctx context.Context, in IngestReading) {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	id, err := uuid.NewV4()
	if err == nil {
		rd := &model.Reading{ID: id, SensorID: in.SensorID, PM25: in.PM25, PM10: in.PM10, Timestamp: ts}
		err = s.readings.Insert(ctx, rd)
	}
	if err != nil {
		s.logger.Warn("reading not persisted",
			zap.String("sensorId", in.SensorID),
			zap.Error(err),
		)
	}

	if ev, ok := alert.Evaluate(in.SensorID, in.PM25, in.Lat, in.Lng); ok {
		s.pub.Publish(broadcast.EventNewAlert, ev)
	}

	s.pub.Publish(broadcast.EventSensorUpdate, SensorUpdate{
		SensorID: in.SensorID,
		PM25:     in.PM25,
		PM10:     in.PM10,
		Lat:      in.Lat,
		Lng:      in.Lng,
		Type:     in.Type,
		Name:     in.Name,
	})
}

// History queries the capped 24h window and folds it into hourly means.
func (s *TelemetryServiceImpl) History(ctx context.Context, sensorID string) ([]model.HourlyPoint, error) {
	since := s.now().Add(-historyWindow)
	readings, err := s.readings.Query(ctx, sensorID, since, repository.MaxQueryRows)
	if err != nil {
		return nil, err
	}
	return aggregate.Hourly(readings), nil
}

// ListSensors returns all known sensors.
func (s *TelemetryServiceImpl) ListSensors(ctx context.Context) ([]model.Sensor, error) {
	return s.sensors.List(ctx)
}

// ProvisionSensor registers a sensor record. Readings never create sensors;
// this is the only write path into the sensor set.
func (s *TelemetryServiceImpl) ProvisionSensor(ctx context.Context, sensor model.Sensor) (model.Sensor, error) {
	if sensor.ID == "" {
		return model.Sensor{}, errors.New("empty sensor id")
	}
	if sensor.Status == "" {
		sensor.Status = model.SensorActive
	}
	if err := s.sensors.Create(ctx, &sensor); err != nil {
		return model.Sensor{}, err
	}
	return sensor, nil
}
