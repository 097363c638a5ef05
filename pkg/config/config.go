package config

import (
	"time"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Model    ModelConfig    `mapstructure:"model"`
	Training TrainingConfig `mapstructure:"training"`
	Database DatabaseConfig `mapstructure:"database"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         LogFileConfig `mapstructure:"log_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type APIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	// PredictRateLimit caps POST /predict per client IP and minute on top
	// of RateLimit. 0 disables it.
	PredictRateLimit int        `mapstructure:"predict_rate_limit"`
	DefaultLimit     int        `mapstructure:"default_limit"`
	MaxLimit         int        `mapstructure:"max_limit"`
	Auth             AuthConfig `mapstructure:"auth"`
	CORS             CORSConfig `mapstructure:"cors"`
}

// AuthConfig guards POST /predict with a bearer token when Enabled.
type AuthConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTDuration time.Duration `mapstructure:"jwt_duration"`
	JWTIssuer   string        `mapstructure:"jwt_issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type ModelConfig struct {
	ArtifactPath string `mapstructure:"artifact_path"`
}

type TrainingConfig struct {
	DataPath   string         `mapstructure:"data_path"`
	TestRatio  float64        `mapstructure:"test_ratio"`
	Seed       int64          `mapstructure:"seed"`
	CVFolds    int            `mapstructure:"cv_folds"`
	GridSearch bool           `mapstructure:"grid_search"`
	Workers    int            `mapstructure:"workers"`
	Candidates []string       `mapstructure:"candidates"`
	Logistic   LogisticConfig `mapstructure:"logistic"`
	Forest     ForestConfig   `mapstructure:"forest"`
}

type LogisticConfig struct {
	C       float64 `mapstructure:"c"`
	MaxIter int     `mapstructure:"max_iter"`
}

type ForestConfig struct {
	NEstimators     int `mapstructure:"n_estimators"`
	MaxDepth        int `mapstructure:"max_depth"`
	MinSamplesSplit int `mapstructure:"min_samples_split"`
}

// DatabaseConfig configures the optional training-run registry.
type DatabaseConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Driver           string        `mapstructure:"driver"`
	Path             string        `mapstructure:"path"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Name             string        `mapstructure:"name"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	MaxConnections   int           `mapstructure:"max_connections"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	PingTimeout      time.Duration `mapstructure:"ping_timeout"`
	MigrationTimeout time.Duration `mapstructure:"migration_timeout"`
}
