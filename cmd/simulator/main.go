// Command simulator generates random-walk air-quality traffic against the
// ingest endpoint, standing in for a real sensor fleet.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type sensorSpec struct {
	ID   string
	Lat  float64
	Lng  float64
	Name string
	Type string // normal | construction | industrial
}

// sensorState is the explicit per-sensor running value of the random walk.
// Each generator loop owns its own copy; nothing is shared.
type sensorState struct {
	pm25 float64
	pm10 float64
}

var fleet = []sensorSpec{
	// Central business district
	{"S-001", 12.9716, 77.5946, "MG Road Junction", "normal"},
	{"S-002", 12.9780, 77.6000, "Cubbon Park Edge", "normal"},
	// Residential
	{"S-003", 12.9600, 77.5800, "Lalbagh Gate", "normal"},
	{"S-004", 12.9850, 77.6100, "Indiranagar 100ft", "normal"},
	// Construction zones (high dust)
	{"S-005", 12.9350, 77.6200, "Koramangala Construction Site", "construction"},
	{"S-006", 12.9250, 77.6100, "Silk Board Metro Works", "construction"},
	{"S-007", 13.0350, 77.5970, "Hebbal Flyover Repair", "construction"},
	// Industrial
	{"S-008", 12.9900, 77.4900, "Peenya Industrial Estate", "industrial"},
	{"S-009", 12.9698, 77.7500, "Whitefield IT Park", "industrial"},
	{"S-010", 12.8399, 77.6770, "Electronic City Phase 1", "industrial"},
	{"S-011", 12.9250, 77.5938, "Jayanagar 4th Block", "normal"},
	{"S-012", 13.0000, 77.5700, "Malleshwaram 18th Cross", "normal"},
	{"S-013", 12.8950, 77.6000, "Bannerghatta Road Metro", "construction"},
	{"S-014", 13.0100, 77.6500, "KR Puram Bridge", "construction"},
	{"S-015", 13.0290, 77.5400, "Yeshwanthpur Market", "industrial"},
	{"S-016", 12.9116, 77.6389, "HSR Layout Sector 2", "normal"},
	{"S-017", 12.9165, 77.6101, "BTM Layout Lake Road", "normal"},
}

// Sensors that get forced alert spikes on a fixed cadence, so the frontend
// always has something to show.
var alertSensors = map[string]bool{"S-005": true, "S-008": true, "S-009": true}

func randBetween(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func initialState(rng *rand.Rand, s sensorSpec) sensorState {
	pm25 := randBetween(rng, 20, 50)
	switch s.Type {
	case "construction":
		pm25 = randBetween(rng, 150, 250)
	case "industrial":
		pm25 = randBetween(rng, 80, 120)
	}
	return sensorState{pm25: pm25, pm10: pm25 * 1.8}
}

// step advances one random walk cycle. Every 23rd cycle the alert sensors
// are forced into the WARNING band, every 46th into CRITICAL.
func step(rng *rand.Rand, s sensorSpec, st sensorState, cycle int) sensorState {
	var drift float64
	switch s.Type {
	case "construction":
		drift = randBetween(rng, -10, 20) // volatile and trending up
	case "industrial":
		drift = randBetween(rng, -5, 10)
	default:
		drift = randBetween(rng, -5, 5)
	}
	pm25 := st.pm25 + drift

	if cycle%23 == 0 && alertSensors[s.ID] {
		if cycle%46 == 0 {
			pm25 = randBetween(rng, 200, 300)
		} else {
			pm25 = randBetween(rng, 120, 180)
		}
	}

	if pm25 < 10 {
		pm25 = 10
	}
	if pm25 > 800 {
		pm25 = 800
	}
	return sensorState{pm25: pm25, pm10: pm25 * 1.8}
}

type ingestPayload struct {
	SensorID string  `json:"sensorId"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
}

func main() {
	apiURL := flag.String("url", "http://localhost:5000/api/sensors/data", "ingest endpoint")
	interval := flag.Duration("interval", 2*time.Second, "cycle interval")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := resty.New().SetTimeout(5 * time.Second)

	states := make(map[string]sensorState, len(fleet))
	for _, s := range fleet {
		states[s.ID] = initialState(rng, s)
	}

	logger.Info("starting sensor simulation",
		zap.Int("sensors", len(fleet)),
		zap.String("url", *apiURL),
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	cycle := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation stopped")
			return
		case <-ticker.C:
			cycle++
			for _, s := range fleet {
				st := step(rng, s, states[s.ID], cycle)
				states[s.ID] = st

				payload := ingestPayload{
					SensorID: s.ID,
					PM25:     st.pm25,
					PM10:     st.pm10,
					Lat:      s.Lat,
					Lng:      s.Lng,
					Type:     s.Type,
					Name:     s.Name,
				}
				resp, err := client.R().
					SetContext(ctx).
					SetBody(payload).
					Post(*apiURL)
				if err != nil {
					logger.Warn("send failed", zap.String("sensorId", s.ID), zap.Error(err))
					continue
				}
				logger.Info("sent",
					zap.String("sensorId", s.ID),
					zap.Float64("pm25", st.pm25),
					zap.Int("status", resp.StatusCode()),
				)
			}
		}
	}
}
