package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/repository"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/maheshrc27/content-compass/pkg/utils"
)

const (
	maxApiKeys       = 5
	maxApiKeyNameLen = 60
)

type ApiKeyService interface {
	Create(ctx context.Context, userID, name string) (*models.ApiKey, error)
	List(ctx context.Context, userID string) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (string, error)
	RemoveAPIKey(ctx context.Context, userID, keyID string) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{k: k}
}

// Create issues a new key. The plaintext is only ever returned here.
func (s *apiKeyService) Create(ctx context.Context, userID, name string) (*models.ApiKey, error) {
	name = strings.TrimSpace(name)
	if len(name) > maxApiKeyNameLen {
		return nil, fmt.Errorf("%w: key name is too long", state.ErrValidationFailed)
	}

	n, err := s.k.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n >= maxApiKeys {
		return nil, ErrApiKeyLimit
	}

	plain, hash, hint, err := utils.NewApiKey()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}
	key := &models.ApiKey{UserID: userID, Name: name, Hint: hint}
	if _, err := s.k.Create(ctx, key, hash); err != nil {
		return nil, fmt.Errorf("save api key: %w", err)
	}
	key.Key = plain
	return key, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (string, error) {
	if !strings.HasPrefix(apiKey, utils.ApiKeyPrefix) {
		return "", ErrApiKeyNotFound
	}
	userID, ok, err := s.k.Authenticate(ctx, utils.HashApiKey(apiKey))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrApiKeyNotFound
	}
	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID string) ([]*models.ApiKey, error) {
	keys, err := s.k.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID string) error {
	if keyID == "" {
		return fmt.Errorf("%w: key id is required", state.ErrValidationFailed)
	}
	removed, err := s.k.RemoveForUser(ctx, keyID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrApiKeyNotFound
	}
	return nil
}
