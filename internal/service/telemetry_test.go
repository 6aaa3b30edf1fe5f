package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hacknova/airwatch/internal/broadcast"
	"github.com/hacknova/airwatch/internal/errs"
	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/repository"
)

type published struct {
	event   string
	payload any
}

// fakePublisher records events synchronously, in publish order.
type fakePublisher struct {
	events []published
}

var _ broadcast.Publisher = (*fakePublisher)(nil)

func (f *fakePublisher) Publish(event string, payload any) {
	f.events = append(f.events, published{event, payload})
}

type fakeReadings struct {
	inserted  []model.Reading
	insertErr error

	queried  []model.Reading
	queryErr error

	lastSensorID string
	lastSince    time.Time
	lastLimit    int
}

var _ repository.ReadingRepository = (*fakeReadings)(nil)

func (f *fakeReadings) Insert(_ context.Context, r *model.Reading) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *r)
	return nil
}

func (f *fakeReadings) Query(_ context.Context, sensorID string, since time.Time, limit int) ([]model.Reading, error) {
	f.lastSensorID, f.lastSince, f.lastLimit = sensorID, since, limit
	return f.queried, f.queryErr
}

type fakeSensors struct {
	created []model.Sensor
	listed  []model.Sensor

	createErr error
	listErr   error
}

var _ repository.SensorRepository = (*fakeSensors)(nil)

func (f *fakeSensors) Create(_ context.Context, s *model.Sensor) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeSensors) List(_ context.Context) ([]model.Sensor, error) {
	return f.listed, f.listErr
}

func newTelemetry(readings *fakeReadings, sensors *fakeSensors, pub *fakePublisher) *TelemetryServiceImpl {
	return NewTelemetryService(readings, sensors, pub, zap.NewNop())
}

func TestTelemetry_Record_PersistsAndBroadcasts(t *testing.T) {
	t.Parallel()

	readings := &fakeReadings{}
	pub := &fakePublisher{}
	s := newTelemetry(readings, &fakeSensors{}, pub)

	s.Record(context.Background(), IngestReading{
		SensorID: "S-001", PM25: 42, PM10: 80, Lat: 12.97, Lng: 77.59, Type: "normal", Name: "MG Road Junction",
	})

	require.Len(t, readings.inserted, 1)
	require.Equal(t, "S-001", readings.inserted[0].SensorID)
	require.False(t, readings.inserted[0].Timestamp.IsZero(), "server must assign a timestamp")

	// Clean reading: live update only, no alert.
	require.Len(t, pub.events, 1)
	require.Equal(t, broadcast.EventSensorUpdate, pub.events[0].event)
	upd, ok := pub.events[0].payload.(SensorUpdate)
	require.True(t, ok)
	require.Equal(t, "MG Road Junction", upd.Name)
}

func TestTelemetry_Record_AlertBeforeLiveUpdate(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	s := newTelemetry(&fakeReadings{}, &fakeSensors{}, pub)

	s.Record(context.Background(), IngestReading{SensorID: "S-005", PM25: 250, PM10: 450, Lat: 12.93, Lng: 77.62})

	require.Len(t, pub.events, 2)
	require.Equal(t, broadcast.EventNewAlert, pub.events[0].event)
	ev, ok := pub.events[0].payload.(model.AlertEvent)
	require.True(t, ok)
	require.Equal(t, model.AlertCritical, ev.Level)
	require.Equal(t, broadcast.EventSensorUpdate, pub.events[1].event)
}

func TestTelemetry_Record_StorageFailureStillBroadcasts(t *testing.T) {
	t.Parallel()

	readings := &fakeReadings{insertErr: errors.New("store down")}
	pub := &fakePublisher{}
	s := newTelemetry(readings, &fakeSensors{}, pub)

	// Must not surface the insert failure; alert and live update still go out.
	s.Record(context.Background(), IngestReading{SensorID: "S-008", PM25: 150, PM10: 270})

	require.Len(t, pub.events, 2)
	require.Equal(t, broadcast.EventNewAlert, pub.events[0].event)
	require.Equal(t, broadcast.EventSensorUpdate, pub.events[1].event)
}

func TestTelemetry_Record_ExplicitTimestampKept(t *testing.T) {
	t.Parallel()

	readings := &fakeReadings{}
	s := newTelemetry(readings, &fakeSensors{}, &fakePublisher{})

	ts := time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC)
	s.Record(context.Background(), IngestReading{SensorID: "S-001", PM25: 10, Timestamp: ts})

	require.Len(t, readings.inserted, 1)
	require.Equal(t, ts, readings.inserted[0].Timestamp)
}

func TestTelemetry_History_WindowAndAggregation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	hour := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	readings := &fakeReadings{queried: []model.Reading{
		{SensorID: "S-001", PM25: 120, PM10: 210, Timestamp: hour.Add(10 * time.Minute)},
		{SensorID: "S-001", PM25: 80, PM10: 150, Timestamp: hour.Add(40 * time.Minute)},
	}}
	s := newTelemetry(readings, &fakeSensors{}, &fakePublisher{})
	s.now = func() time.Time { return now }

	points, err := s.History(context.Background(), "S-001")
	require.NoError(t, err)

	require.Equal(t, "S-001", readings.lastSensorID)
	require.Equal(t, now.Add(-24*time.Hour), readings.lastSince)
	require.Equal(t, repository.MaxQueryRows, readings.lastLimit)

	require.Len(t, points, 1)
	require.Equal(t, hour, points[0].Timestamp)
	require.Equal(t, 100.0, points[0].PM25)
	require.Equal(t, 180.0, points[0].PM10)
}

func TestTelemetry_History_EmptyAndError(t *testing.T) {
	t.Parallel()

	readings := &fakeReadings{}
	s := newTelemetry(readings, &fakeSensors{}, &fakePublisher{})

	points, err := s.History(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, points)

	readings.queryErr = errors.New("store down")
	_, err = s.History(context.Background(), "")
	require.Error(t, err)
}

func TestTelemetry_ProvisionSensor(t *testing.T) {
	t.Parallel()

	sensors := &fakeSensors{}
	s := newTelemetry(&fakeReadings{}, sensors, &fakePublisher{})

	_, err := s.ProvisionSensor(context.Background(), model.Sensor{})
	require.Error(t, err, "empty id must be rejected")

	got, err := s.ProvisionSensor(context.Background(), model.Sensor{ID: "S-100", Name: "New Site", Lat: 1, Lng: 2})
	require.NoError(t, err)
	require.Equal(t, model.SensorActive, got.Status, "status defaults to active")
	require.Len(t, sensors.created, 1)

	sensors.createErr = errs.ErrAlreadyExists
	_, err = s.ProvisionSensor(context.Background(), model.Sensor{ID: "S-100"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}
