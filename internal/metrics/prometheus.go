package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	predictionsTotal map[string]int64 // risk level -> count
	predictionErrors map[string]int64 // reason -> count

	// Gauges
	modelLoaded map[string]int // model label -> 0/1

	// Latency summary
	predictionLatencySum   time.Duration
	predictionLatencyCount int64
	predictionLatencyLast  time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

func New() *Metrics {
	return &Metrics{
		predictionsTotal: make(map[string]int64),
		predictionErrors: make(map[string]int64),
		modelLoaded:      make(map[string]int),
	}
}

// Get returns the process-wide registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func (m *Metrics) IncPrediction(riskLevel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionsTotal[riskLevel]++
}

func (m *Metrics) IncPredictionError(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionErrors[reason]++
}

func (m *Metrics) ObservePredictionLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionLatencySum += d
	m.predictionLatencyCount++
	m.predictionLatencyLast = d
}

func (m *Metrics) SetModelLoaded(label string, loaded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loaded {
		m.modelLoaded[label] = 1
	} else {
		m.modelLoaded[label] = 0
	}
}

func (m *Metrics) PredictionCount(riskLevel string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictionsTotal[riskLevel]
}

func (m *Metrics) ErrorCount(reason string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictionErrors[reason]
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		m.WriteTo(w)
	})
}

// WriteTo renders every series in text exposition format, sorted by label.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	// Predictions
	for _, level := range sortedKeys(m.predictionsTotal) {
		writeMetric(&b, "diapredict_predictions_total", map[string]string{"risk_level": level}, float64(m.predictionsTotal[level]))
	}

	// Prediction errors
	for _, reason := range sortedKeys(m.predictionErrors) {
		writeMetric(&b, "diapredict_prediction_errors_total", map[string]string{"reason": reason}, float64(m.predictionErrors[reason]))
	}

	// Model gauge
	for _, label := range sortedKeys(m.modelLoaded) {
		writeMetric(&b, "diapredict_model_loaded", map[string]string{"model": label}, float64(m.modelLoaded[label]))
	}

	// Latency
	if m.predictionLatencyCount > 0 {
		writeMetric(&b, "diapredict_prediction_latency_seconds_sum", nil, m.predictionLatencySum.Seconds())
		writeMetric(&b, "diapredict_prediction_latency_seconds_count", nil, float64(m.predictionLatencyCount))
		writeMetric(&b, "diapredict_prediction_latency_last_ms", nil, float64(m.predictionLatencyLast.Microseconds())/1000)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeMetric(b *strings.Builder, name string, labels map[string]string, value float64) {
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteString("{")
		for i, k := range sortedKeys(labels) {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%s=%q", k, labels[k])
		}
		b.WriteString("}")
	}
	b.WriteString(" " + strconv.FormatFloat(value, 'f', -1, 64) + "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
