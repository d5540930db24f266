package telemetry

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// Fixed readings served when the soil or environment channel is unreachable.
var (
	MockSoilReading = models.SoilReading{
		Nitrogen:               45.2,
		Phosphorus:             23.8,
		Potassium:              156.4,
		PH:                     6.5,
		ElectricalConductivity: 0.8,
		SoilMoisture:           68.5,
		SoilTemperature:        24.3,
		Source:                 models.SourceMock,
	}
	MockEnvironmentReading = models.EnvironmentReading{
		SunlightIntensity: 45000,
		Temperature:       28.5,
		Humidity:          72.1,
		Source:            models.SourceMock,
	}
)

type span struct{ min, max float64 }

// Noise ranges for synthetic histories.
var (
	soilSpans = struct{ n, p, k, ph, ec, moisture, temp span }{
		n: span{40, 60}, p: span{20, 35}, k: span{140, 180}, ph: span{6.0, 7.5},
		ec: span{0.5, 1.3}, moisture: span{60, 80}, temp: span{20, 30},
	}
	envSpans = struct{ sunlight, temp, humidity span }{
		sunlight: span{30000, 60000}, temp: span{20, 35}, humidity: span{65, 85},
	}
)

// Mock produces stand-in telemetry. It is safe for concurrent use.
type Mock struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMock returns a generator drawing noise from rnd. A nil rnd uses a
// randomly seeded source.
func NewMock(rnd *rand.Rand) *Mock {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Mock{rnd: rnd}
}

// Soil returns the fixed soil reading stamped at now.
func (m *Mock) Soil(now time.Time) models.SoilReading {
	r := MockSoilReading
	r.Timestamp = now
	return r
}

// Environment returns the fixed environment reading stamped at now.
func (m *Mock) Environment(now time.Time) models.EnvironmentReading {
	r := MockEnvironmentReading
	r.Timestamp = now
	return r
}

// SoilHistory returns n hourly readings ending at now, oldest first.
func (m *Mock) SoilHistory(n int, now time.Time) []models.SoilReading {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.SoilReading, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, models.SoilReading{
			Nitrogen:               m.draw(soilSpans.n),
			Phosphorus:             m.draw(soilSpans.p),
			Potassium:              m.draw(soilSpans.k),
			PH:                     m.draw(soilSpans.ph),
			ElectricalConductivity: m.draw(soilSpans.ec),
			SoilMoisture:           m.draw(soilSpans.moisture),
			SoilTemperature:        m.draw(soilSpans.temp),
			Timestamp:              hourly(now, n, i),
			Source:                 models.SourceMock,
		})
	}
	return out
}

// EnvironmentHistory returns n hourly readings ending at now, oldest first.
func (m *Mock) EnvironmentHistory(n int, now time.Time) []models.EnvironmentReading {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.EnvironmentReading, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, models.EnvironmentReading{
			SunlightIntensity: m.draw(envSpans.sunlight),
			Temperature:       m.draw(envSpans.temp),
			Humidity:          m.draw(envSpans.humidity),
			Timestamp:         hourly(now, n, i),
			Source:            models.SourceMock,
		})
	}
	return out
}

func (m *Mock) draw(s span) float64 {
	return s.min + m.rnd.Float64()*(s.max-s.min)
}

func hourly(now time.Time, n, i int) time.Time {
	return now.Add(-time.Duration(n-1-i) * time.Hour)
}
