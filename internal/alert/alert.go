// Package alert classifies PM2.5 samples against fixed thresholds.
package alert

import (
	"fmt"

	"github.com/hacknova/airwatch/internal/model"
)

// Thresholds in µg/m³. 100 itself is clean; 200 itself is still WARNING.
const (
	WarnAbove     = 100
	CriticalAbove = 200
)

// Evaluate judges a single sample. Every sample is judged independently —
// no history, no debouncing. ok is false when the reading needs no alert.
func Evaluate(sensorID string, pm25, lat, lng float64) (ev model.AlertEvent, ok bool) {
	if pm25 <= WarnAbove {
		return model.AlertEvent{}, false
	}
	level := model.AlertWarning
	if pm25 > CriticalAbove {
		level = model.AlertCritical
	}
	return model.AlertEvent{
		SensorID: sensorID,
		Level:    level,
		PM25:     pm25,
		Lat:      lat,
		Lng:      lng,
		Message:  fmt.Sprintf("High dust detected at sensor %s!", sensorID),
	}, true
}
