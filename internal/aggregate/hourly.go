// Package aggregate reduces reading windows to hourly mean buckets.
package aggregate

import (
	"sort"
	"time"

	"github.com/hacknova/airwatch/internal/model"
)

// Hourly groups readings by the clock hour containing their timestamp and
// returns one point per non-empty hour carrying the hour start and the
// arithmetic means of pm25 and pm10. Hours without readings are omitted —
// no interpolation. Output is sorted ascending by hour. Empty input yields
// empty output.
func Hourly(readings []model.Reading) []model.HourlyPoint {
	type bucket struct {
		pm25, pm10 float64
		count      int
	}
	buckets := make(map[time.Time]*bucket)

	for _, r := range readings {
		hour := hourStart(r.Timestamp)
		b := buckets[hour]
		if b == nil {
			b = &bucket{}
			buckets[hour] = b
		}
		b.pm25 += r.PM25
		b.pm10 += r.PM10
		b.count++
	}

	out := make([]model.HourlyPoint, 0, len(buckets))
	for hour, b := range buckets {
		out = append(out, model.HourlyPoint{
			Timestamp: hour,
			PM25:      b.pm25 / float64(b.count),
			PM10:      b.pm10 / float64(b.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// hourStart zeroes minutes, seconds and sub-second fields in the timestamp's
// own location. time.Truncate is not used: it rounds against absolute time
// and lands mid-hour in half-hour-offset zones.
func hourStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}
