package services

import (
	"context"
	"strings"
	"time"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/repository"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
)

const keyPrefix = "wv_"

type APIKeyService struct {
	repo repository.APIKeyRepository
}

func NewAPIKeyService(repo repository.APIKeyRepository) *APIKeyService {
	return &APIKeyService{repo: repo}
}

// Generate mints a new credential. The raw key is returned exactly once;
// only its hash is persisted.
func (s *APIKeyService) Generate(ctx context.Context, userID uuid.UUID, name string, scopes []string) (apikey.APIKey, string, error) {
	if userID == uuid.Nil || len(scopes) == 0 {
		return apikey.APIKey{}, "", wave_errors.ErrInvalidInput
	}

	raw, err := generateToken(24)
	if err != nil {
		return apikey.APIKey{}, "", err
	}
	raw = keyPrefix + raw

	k := apikey.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		KeyHash:   hashToken(raw),
		Scopes:    strings.Join(scopes, ","),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, &k); err != nil {
		return apikey.APIKey{}, "", err
	}

	return k, raw, nil
}

// Resolve maps a bearer credential to a principal carrying the key's
// user id and granted scopes.
func (s *APIKeyService) Resolve(ctx context.Context, rawKey string) (Principal, error) {
	if rawKey == "" || !strings.HasPrefix(rawKey, keyPrefix) {
		return Principal{}, wave_errors.ErrUnauthorized
	}

	k, err := s.repo.GetByHash(ctx, hashToken(rawKey))
	if err != nil {
		return Principal{}, wave_errors.ErrUnauthorized
	}
	if k.IsRevoked {
		return Principal{}, wave_errors.ErrUnauthorized
	}

	_ = s.repo.TouchLastUsed(ctx, k.ID)

	return Principal{
		UserID:   k.UserID,
		APIKeyID: uuid.NullUUID{UUID: k.ID, Valid: true},
		Scopes:   strings.Split(k.Scopes, ","),
	}, nil
}

// Revoke disables a key the user owns. Resolve rejects the key from the
// next request on.
func (s *APIKeyService) Revoke(ctx context.Context, userID, keyID uuid.UUID) error {
	if userID == uuid.Nil || keyID == uuid.Nil {
		return wave_errors.ErrNotFound
	}
	return s.repo.Revoke(ctx, keyID, userID)
}

// HasScope checks the principal against the scope a route declares.
// Session principals carry no scope list and pass every check.
func HasScope(p Principal, scope string) bool {
	if !p.FromAPIKey() {
		return true
	}
	for _, s := range p.Scopes {
		if strings.TrimSpace(s) == scope {
			return true
		}
	}
	return false
}
