package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/OldStager01/diapredict/pkg/database"
)

var (
	ErrClientNotFound = errors.New("api client not found")
	ErrClientExists   = errors.New("api client already exists")
)

// Client is a caller allowed to exchange credentials for a bearer token.
type Client struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type ClientRepository struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByUsername(ctx context.Context, username string) (*Client, error) {
	query := r.db.Rebind(`SELECT id, username, password_hash, created_at FROM api_clients WHERE username = ?`)

	var client Client
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&client.ID,
		&client.Username,
		&client.PasswordHash,
		&client.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, username, passwordHash string) (*Client, error) {
	exists, err := r.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrClientExists
	}

	query := r.db.Rebind(`INSERT INTO api_clients (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`)

	client := Client{Username: username, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	err = r.db.QueryRowContext(ctx, query, username, passwordHash, client.CreatedAt).Scan(&client.ID)
	if err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *ClientRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM api_clients WHERE username = ?)`)

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	return exists, err
}
