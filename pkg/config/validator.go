package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.Auth.Enabled {
		if c.API.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("api.auth.jwt_secret is required when auth is enabled"))
		}
		if c.App.Mode == "production" && c.API.Auth.JWTSecret == "change-me-in-production" {
			errs = append(errs, errors.New("api.auth.jwt_secret must be changed in production"))
		}
	}

	// Model validation
	if c.Model.ArtifactPath == "" {
		errs = append(errs, errors.New("model.artifact_path is required"))
	}

	// Training validation
	if c.Training.TestRatio <= 0 || c.Training.TestRatio >= 1 {
		errs = append(errs, errors.New("training.test_ratio must be between 0 and 1"))
	}
	if c.Training.CVFolds == 1 || c.Training.CVFolds < 0 {
		errs = append(errs, errors.New("training.cv_folds must be 0 or at least 2"))
	}
	if len(c.Training.Candidates) == 0 {
		errs = append(errs, errors.New("training.candidates must not be empty"))
	}
	if c.Training.Logistic.C <= 0 {
		errs = append(errs, errors.New("training.logistic.c must be positive"))
	}
	if c.Training.Forest.NEstimators <= 0 {
		errs = append(errs, errors.New("training.forest.n_estimators must be positive"))
	}
	if c.Training.Forest.MaxDepth < 0 {
		errs = append(errs, errors.New("training.forest.max_depth must not be negative"))
	}

	// Database validation
	if c.Database.Enabled {
		switch c.Database.Driver {
		case "sqlite3":
			if c.Database.Path == "" {
				errs = append(errs, errors.New("database.path is required for sqlite3"))
			}
		case "postgres":
			if c.Database.Host == "" {
				errs = append(errs, errors.New("database.host is required"))
			}
			if c.Database.Port <= 0 || c.Database.Port > 65535 {
				errs = append(errs, errors.New("database.port must be between 1 and 65535"))
			}
			if c.Database.Name == "" {
				errs = append(errs, errors.New("database.name is required"))
			}
			if c.Database.MaxConnections <= 0 {
				errs = append(errs, errors.New("database.max_connections must be positive"))
			}
		default:
			errs = append(errs, errors.New("database.driver must be one of: postgres, sqlite3"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
