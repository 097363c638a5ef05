package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/diapredict")
	}

	// Environment variable settings
	v.SetEnvPrefix("DIAPREDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Platform-provided listener port wins over the prefixed key
	if err := v.BindEnv("api.port", "PORT", "DIAPREDICT_API_PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port env: %w", err)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "diapredict")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "10s")
	v.SetDefault("app.log_file.max_size_mb", 50)
	v.SetDefault("app.log_file.max_backups", 3)
	v.SetDefault("app.log_file.max_age_days", 28)

	// API defaults
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.predict_rate_limit", 60)
	v.SetDefault("api.default_limit", 20)
	v.SetDefault("api.max_limit", 100)
	v.SetDefault("api.auth.enabled", false)
	v.SetDefault("api.auth.jwt_secret", "change-me-in-production")
	v.SetDefault("api.auth.jwt_duration", "24h")
	v.SetDefault("api.auth.jwt_issuer", "diapredict")
	v.SetDefault("api.cors.allowed_origins", []string{"*"})
	v.SetDefault("api.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("api.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"})

	// Model defaults
	v.SetDefault("model.artifact_path", "models/diabetes_model.json")

	// Training defaults
	v.SetDefault("training.data_path", "data/diabetes.csv")
	v.SetDefault("training.test_ratio", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.cv_folds", 5)
	v.SetDefault("training.grid_search", false)
	v.SetDefault("training.candidates", []string{"logistic_regression", "random_forest"})
	v.SetDefault("training.logistic.c", 1.0)
	v.SetDefault("training.logistic.max_iter", 1000)
	v.SetDefault("training.forest.n_estimators", 100)
	v.SetDefault("training.forest.max_depth", 0)
	v.SetDefault("training.forest.min_samples_split", 2)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", "data/runs.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "diapredict")
	v.SetDefault("database.user", "admin")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "30s")
}
