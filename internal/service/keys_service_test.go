package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/maheshrc27/content-compass/internal/models"
	"github.com/maheshrc27/content-compass/internal/state"
	"github.com/maheshrc27/content-compass/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedKey struct {
	key  models.ApiKey
	hash string
}

// apiKeyRepoStub is an in-memory repository.ApiKeyRepository.
type apiKeyRepoStub struct {
	keys []storedKey
	seq  int
}

func (s *apiKeyRepoStub) Create(_ context.Context, key *models.ApiKey, hash string) (string, error) {
	s.seq++
	key.ID = fmt.Sprintf("key-%d", s.seq)
	s.keys = append(s.keys, storedKey{key: *key, hash: hash})
	return key.ID, nil
}

func (s *apiKeyRepoStub) ListByUserID(_ context.Context, userID string) ([]*models.ApiKey, error) {
	out := []*models.ApiKey{}
	for _, k := range s.keys {
		if k.key.UserID == userID {
			k := k.key
			out = append(out, &k)
		}
	}
	return out, nil
}

func (s *apiKeyRepoStub) CountByUserID(ctx context.Context, userID string) (int, error) {
	keys, _ := s.ListByUserID(ctx, userID)
	return len(keys), nil
}

func (s *apiKeyRepoStub) Authenticate(_ context.Context, hash string) (string, bool, error) {
	for _, k := range s.keys {
		if k.hash == hash {
			return k.key.UserID, true, nil
		}
	}
	return "", false, nil
}

func (s *apiKeyRepoStub) RemoveForUser(_ context.Context, id, userID string) (bool, error) {
	for i, k := range s.keys {
		if k.key.ID == id && k.key.UserID == userID {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestApiKeyService_Lifecycle(t *testing.T) {
	repo := &apiKeyRepoStub{}
	svc := NewApiKeyService(repo)
	ctx := context.Background()

	key, err := svc.Create(ctx, "u1", "  zapier ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key.Key, utils.ApiKeyPrefix))
	assert.Equal(t, "zapier", key.Name)
	assert.Equal(t, key.Key[len(key.Key)-4:], key.Hint)
	assert.NotContains(t, repo.keys[0].hash, key.Key)

	uid, err := svc.GetUserID(ctx, key.Key)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	listed, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Key)

	assert.ErrorIs(t, svc.RemoveAPIKey(ctx, "u2", key.ID), ErrApiKeyNotFound)
	require.NoError(t, svc.RemoveAPIKey(ctx, "u1", key.ID))

	_, err = svc.GetUserID(ctx, key.Key)
	assert.ErrorIs(t, err, ErrApiKeyNotFound)
}

func TestApiKeyService_Limit(t *testing.T) {
	svc := NewApiKeyService(&apiKeyRepoStub{})
	ctx := context.Background()

	for i := 0; i < maxApiKeys; i++ {
		_, err := svc.Create(ctx, "u1", "")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u1", "")
	assert.ErrorIs(t, err, ErrApiKeyLimit)

	_, err = svc.Create(ctx, "u2", "")
	assert.NoError(t, err)
}

func TestApiKeyService_Rejects(t *testing.T) {
	svc := NewApiKeyService(&apiKeyRepoStub{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", strings.Repeat("x", maxApiKeyNameLen+1))
	assert.ErrorIs(t, err, state.ErrValidationFailed)

	_, err = svc.GetUserID(ctx, "no-prefix")
	assert.ErrorIs(t, err, ErrApiKeyNotFound)

	assert.ErrorIs(t, svc.RemoveAPIKey(ctx, "u1", ""), state.ErrValidationFailed)
}
