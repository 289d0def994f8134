package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/content-compass/internal/models"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, key *models.ApiKey, hash string) (string, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.ApiKey, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	Authenticate(ctx context.Context, hash string) (string, bool, error)
	RemoveForUser(ctx context.Context, id, userID string) (bool, error)
}

type apiKeyRepository struct {
	db *sql.DB
}

func NewApiKeyRepository(db *sql.DB) ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

func scanApiKey(s scanner) (*models.ApiKey, error) {
	var k models.ApiKey
	var lastUsed sql.NullTime
	if err := s.Scan(&k.ID, &k.UserID, &k.Name, &k.Hint, &k.CreatedAt, &lastUsed); err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		k.LastUsedAt = &lastUsed.Time
	}
	return &k, nil
}

func (r *apiKeyRepository) Create(ctx context.Context, key *models.ApiKey, hash string) (string, error) {
	query := `
		INSERT INTO api_keys (id, user_id, name, key_hash, hint)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	id, err := NewID()
	if err != nil {
		return "", err
	}
	err = r.db.QueryRowContext(ctx, query, id, key.UserID, key.Name, hash, key.Hint).Scan(&key.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	key.ID = id
	return id, nil
}

func (r *apiKeyRepository) ListByUserID(ctx context.Context, userID string) ([]*models.ApiKey, error) {
	query := `
		SELECT id, user_id, name, hint, created_at, last_used_at
		FROM api_keys WHERE user_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	keys := []*models.ApiKey{}
	for rows.Next() {
		k, err := scanApiKey(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

// Authenticate resolves a key hash to its owner and stamps last_used_at.
func (r *apiKeyRepository) Authenticate(ctx context.Context, hash string) (string, bool, error) {
	query := `UPDATE api_keys SET last_used_at = NOW() WHERE key_hash = $1 RETURNING user_id`
	var userID string
	if err := r.db.QueryRowContext(ctx, query, hash).Scan(&userID); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return userID, true, nil
}

// RemoveForUser deletes a key only when userID owns it.
func (r *apiKeyRepository) RemoveForUser(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	if err := expectOne(res); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
