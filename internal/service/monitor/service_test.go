package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/soilhealth"
)

type stubReader struct{ reading models.SoilReading }

func (s *stubReader) LatestSoil(context.Context) models.SoilReading { return s.reading }

type memorySink struct {
	mu    sync.Mutex
	saved []models.HealthSnapshot
	err   error
}

func (m *memorySink) SaveSnapshot(_ context.Context, s models.HealthSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) NotifySoilHealth(context.Context, models.HealthSnapshot) error {
	c.calls++
	return c.err
}

type recordingMetrics struct {
	mu         sync.Mutex
	ranks      []int
	sinkErrors map[string]int
	alerts     int
}

func (r *recordingMetrics) ObserveSnapshot(_ models.HealthSnapshot, rank int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranks = append(r.ranks, rank)
}

func (r *recordingMetrics) IncSinkError(sink string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sinkErrors == nil {
		r.sinkErrors = map[string]int{}
	}
	r.sinkErrors[sink]++
}

func (r *recordingMetrics) IncAlertSent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts++
}

var (
	healthy = models.SoilReading{
		Nitrogen: 182.5, Phosphorus: 9.25, Potassium: 110, PH: 7,
		SoilMoisture: 30, SoilTemperature: 25, Source: models.SourceThingSpeak,
	}
	degraded = models.SoilReading{
		Nitrogen: 0, Phosphorus: 0, Potassium: 0, PH: 3,
		ElectricalConductivity: 4, SoilMoisture: 90, SoilTemperature: 50, Source: models.SourceThingSpeak,
	}
	fixedNow = time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
)

func newTestService(r Reader, sinks []NamedSink, n Notifier, m Metrics) *Service {
	svc := NewService(r, sinks, n, m, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestPollPersistsToEverySink(t *testing.T) {
	mongo, influx := &memorySink{}, &memorySink{}
	metrics := &recordingMetrics{}
	svc := newTestService(&stubReader{reading: healthy},
		[]NamedSink{{Name: "mongo", Sink: mongo}, {Name: "influx", Sink: influx}}, nil, metrics)

	snap, err := svc.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, snap.OverallScore)
	assert.Equal(t, string(soilhealth.Excellent), snap.Category)
	assert.Equal(t, fixedNow, snap.CapturedAt)
	assert.Equal(t, []models.HealthSnapshot{snap}, mongo.saved)
	assert.Equal(t, []models.HealthSnapshot{snap}, influx.saved)
	assert.Equal(t, []int{0}, metrics.ranks)
}

func TestPollJoinsSinkErrors(t *testing.T) {
	ok := &memorySink{}
	bad := &memorySink{err: errors.New("disk full")}
	metrics := &recordingMetrics{}
	svc := newTestService(&stubReader{reading: healthy},
		[]NamedSink{{Name: "sheets", Sink: bad}, {Name: "mongo", Sink: ok}}, nil, metrics)

	snap, err := svc.Poll(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "sheets: disk full")
	assert.Len(t, ok.saved, 1, "a failing sink does not stop the others")
	assert.Equal(t, 100, snap.OverallScore)
	assert.Equal(t, 1, metrics.sinkErrors["sheets"])
}

func TestAlertFiresOnTransitionIntoVeryPoor(t *testing.T) {
	reader := &stubReader{reading: degraded}
	notifier := &countingNotifier{}
	metrics := &recordingMetrics{}
	svc := newTestService(reader, nil, notifier, metrics)

	snap, err := svc.Poll(context.Background())
	require.NoError(t, err)
	require.Equal(t, string(soilhealth.VeryPoor), snap.Category)
	assert.Equal(t, 1, notifier.calls)

	_, _ = svc.Poll(context.Background())
	assert.Equal(t, 1, notifier.calls, "no repeat while still Very Poor")

	reader.reading = healthy
	_, _ = svc.Poll(context.Background())
	reader.reading = degraded
	_, _ = svc.Poll(context.Background())
	assert.Equal(t, 2, notifier.calls, "recovery re-arms the alert")
	assert.Equal(t, 2, metrics.alerts)
}

func TestFailedAlertIsRetried(t *testing.T) {
	notifier := &countingNotifier{err: errors.New("rate limited")}
	svc := newTestService(&stubReader{reading: degraded}, nil, notifier, nil)

	_, err := svc.Poll(context.Background())
	assert.ErrorContains(t, err, "rate limited")

	notifier.err = nil
	_, err = svc.Poll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, notifier.calls)

	_, _ = svc.Poll(context.Background())
	assert.Equal(t, 2, notifier.calls)
}

func TestMockReadingsDoNotAlert(t *testing.T) {
	r := degraded
	r.Source = models.SourceMock
	notifier := &countingNotifier{}
	_, err := newTestService(&stubReader{reading: r}, nil, notifier, nil).Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, notifier.calls)
}
