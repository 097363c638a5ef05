package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/internal/logger"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()

	logger.Setup(level, "production")
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.Setup("info", "production")
	})
	return &buf
}

func TestTraceIDContext(t *testing.T) {
	ctx := logger.WithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", logger.TraceIDFromContext(ctx))
	assert.Empty(t, logger.TraceIDFromContext(context.Background()))
}

func TestErrorCtxf_IncludesTraceID(t *testing.T) {
	buf := capture(t, "info")

	ctx := logger.WithTraceID(context.Background(), "trace-123")
	logger.ErrorCtxf(ctx, "prediction failed: %s", "boom")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "prediction failed: boom", entry["msg"])
	assert.Equal(t, "trace-123", entry[logger.FieldTraceID])
}

func TestWithModel(t *testing.T) {
	buf := capture(t, "info")

	logger.WithModel("model-1").Infof("loaded %s", "Random Forest")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "model-1", entry[logger.FieldModelID])
}

func TestSetup_Level(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
	}{
		{"debug", true},
		{"info", false},
		{"not-a-level", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t, tt.level)
			logger.Debugf("migration %s", "001")
			assert.Equal(t, tt.debugShown, buf.Len() > 0)
		})
	}
}

func TestSetupWithFile_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diapredict.log")
	logger.SetupWithFile("info", "production", logger.FileOptions{Path: path, MaxSizeMB: 1})
	t.Cleanup(func() {
		logger.Setup("info", "production")
	})

	logger.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
