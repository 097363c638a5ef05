// Command tokengen registers API clients for POST /auth/token and mints
// bearer tokens for them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/OldStager01/diapredict/internal/auth"
	"github.com/OldStager01/diapredict/internal/logger"
	"github.com/OldStager01/diapredict/pkg/config"
	"github.com/OldStager01/diapredict/pkg/database"
	"github.com/OldStager01/diapredict/pkg/database/queries"
	"github.com/OldStager01/diapredict/pkg/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	username := flag.String("username", "", "API client name")
	secret := flag.String("secret", "", "client secret to register (omit to only mint a token)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)

	name := validation.SanitizeString(*username)
	if err := validation.ValidateClientName(name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientID := 0
	if *secret != "" {
		if !cfg.Database.Enabled {
			return errors.New("registering a client needs database.enabled")
		}
		clientID, err = register(ctx, cfg, name, *secret)
		if err != nil {
			return err
		}
		logger.Infof("Registered API client %q (id %d)", name, clientID)
	}

	svc := auth.NewService(cfg.API.Auth.JWTSecret, cfg.API.Auth.JWTDuration, auth.WithIssuer(cfg.API.Auth.JWTIssuer))
	token, err := svc.GenerateToken(clientID, name)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func register(ctx context.Context, cfg *config.Config, name, secret string) (int, error) {
	if err := validation.ValidateSecret(secret); err != nil {
		return 0, err
	}

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db).Run(ctx); err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}

	hash, err := auth.HashPassword(secret)
	if err != nil {
		return 0, fmt.Errorf("failed to hash secret: %w", err)
	}

	client, err := queries.NewClientRepository(db).Create(ctx, name, hash)
	if err != nil {
		return 0, err
	}
	return client.ID, nil
}
