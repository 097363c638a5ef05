package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/diapredict/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		API: config.APIConfig{
			Port: 8000,
		},
		Model: config.ModelConfig{
			ArtifactPath: "models/diabetes_model.json",
		},
		Training: config.TrainingConfig{
			TestRatio:  0.2,
			Seed:       42,
			CVFolds:    5,
			Candidates: []string{"logistic_regression", "random_forest"},
			Logistic:   config.LogisticConfig{C: 1, MaxIter: 1000},
			Forest:     config.ForestConfig{NEstimators: 100, MinSamplesSplit: 2},
		},
		Database: config.DatabaseConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           5432,
			Name:           "testdb",
			User:           "user",
			Password:       "pass",
			MaxConnections: 10,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*config.Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *config.Config) {},
			expectErr:  false,
		},
		{
			name: "invalid mode",
			modifyFunc: func(c *config.Config) {
				c.App.Mode = "staging"
			},
			expectErr:   true,
			errContains: "app.mode must be one of",
		},
		{
			name: "port out of range",
			modifyFunc: func(c *config.Config) {
				c.API.Port = 70000
			},
			expectErr:   true,
			errContains: "api.port must be between",
		},
		{
			name: "test ratio of one",
			modifyFunc: func(c *config.Config) {
				c.Training.TestRatio = 1
			},
			expectErr:   true,
			errContains: "test_ratio must be between 0 and 1",
		},
		{
			name: "single fold",
			modifyFunc: func(c *config.Config) {
				c.Training.CVFolds = 1
			},
			expectErr:   true,
			errContains: "cv_folds must be 0 or at least 2",
		},
		{
			name: "cross-validation disabled",
			modifyFunc: func(c *config.Config) {
				c.Training.CVFolds = 0
			},
			expectErr: false,
		},
		{
			name: "no candidates",
			modifyFunc: func(c *config.Config) {
				c.Training.Candidates = nil
			},
			expectErr:   true,
			errContains: "candidates must not be empty",
		},
		{
			name: "default secret in production with auth",
			modifyFunc: func(c *config.Config) {
				c.App.Mode = "production"
				c.API.Auth = config.AuthConfig{Enabled: true, JWTSecret: "change-me-in-production"}
			},
			expectErr:   true,
			errContains: "jwt_secret must be changed in production",
		},
		{
			name: "default secret ignored without auth",
			modifyFunc: func(c *config.Config) {
				c.App.Mode = "production"
				c.API.Auth = config.AuthConfig{JWTSecret: "change-me-in-production"}
			},
			expectErr: false,
		},
		{
			name: "unknown database driver",
			modifyFunc: func(c *config.Config) {
				c.Database.Enabled = true
				c.Database.Driver = "mysql"
			},
			expectErr:   true,
			errContains: "database.driver must be one of",
		},
		{
			name: "sqlite without path",
			modifyFunc: func(c *config.Config) {
				c.Database.Enabled = true
				c.Database.Driver = "sqlite3"
			},
			expectErr:   true,
			errContains: "database.path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dbCfg := config.DatabaseConfig{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		Name:     "testdb",
		User:     "admin",
		Password: "secret",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=admin password=secret dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dbCfg.DSN())

	sqlite := config.DatabaseConfig{Driver: "sqlite3", Path: "data/runs.db"}
	assert.Equal(t, "file:data/runs.db?_foreign_keys=on", sqlite.DSN())
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "diapredict", cfg.App.Name)
	assert.Equal(t, 8000, cfg.API.Port)
	assert.Equal(t, "models/diabetes_model.json", cfg.Model.ArtifactPath)
	assert.Equal(t, 0.2, cfg.Training.TestRatio)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, []string{"logistic_regression", "random_forest"}, cfg.Training.Candidates)
	assert.Equal(t, 100, cfg.Training.Forest.NEstimators)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  mode: production
api:
  port: 9100
model:
  artifact_path: /srv/model.json
training:
  grid_search: true
  forest:
    n_estimators: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Mode)
	assert.Equal(t, 9100, cfg.API.Port)
	assert.Equal(t, "/srv/model.json", cfg.Model.ArtifactPath)
	assert.True(t, cfg.Training.GridSearch)
	assert.Equal(t, 200, cfg.Training.Forest.NEstimators)
	assert.Equal(t, 1000, cfg.Training.Logistic.MaxIter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9200")
	t.Setenv("DIAPREDICT_MODEL_ARTIFACT_PATH", "/tmp/other.json")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.API.Port)
	assert.Equal(t, "/tmp/other.json", cfg.Model.ArtifactPath)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir on Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
