package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/internal/metrics"
)

func TestMetrics_Exposition(t *testing.T) {
	m := metrics.New()
	m.IncPrediction("High Risk")
	m.IncPrediction("High Risk")
	m.IncPrediction("Low Risk")
	m.IncPredictionError("validation")
	m.SetModelLoaded("Random Forest", true)
	m.ObservePredictionLatency(2 * time.Millisecond)
	m.ObservePredictionLatency(4 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	body := rec.Body.String()
	assert.Contains(t, body, `diapredict_predictions_total{risk_level="High Risk"} 2`)
	assert.Contains(t, body, `diapredict_predictions_total{risk_level="Low Risk"} 1`)
	assert.Contains(t, body, `diapredict_prediction_errors_total{reason="validation"} 1`)
	assert.Contains(t, body, `diapredict_model_loaded{model="Random Forest"} 1`)
	assert.Contains(t, body, "diapredict_prediction_latency_seconds_sum 0.006\n")
	assert.Contains(t, body, "diapredict_prediction_latency_seconds_count 2\n")
	assert.Contains(t, body, "diapredict_prediction_latency_last_ms 4\n")

	assert.Less(t, strings.Index(body, "High Risk"), strings.Index(body, "Low Risk"))
}

func TestMetrics_Counts(t *testing.T) {
	m := metrics.New()
	m.IncPredictionError("model_missing")

	assert.Equal(t, int64(1), m.ErrorCount("model_missing"))
	assert.Equal(t, int64(0), m.PredictionCount("High Risk"))
	assert.Same(t, metrics.Get(), metrics.Get())
}
