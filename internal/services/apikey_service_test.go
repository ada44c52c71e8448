package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wavechat/internal/domain/apikey"
	"wavechat/internal/repository"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
)

func newTestAPIKeyService(t *testing.T) (*APIKeyService, repository.APIKeyRepository) {
	t.Helper()
	repo := repository.NewAPIKeyRepository(openTestDB(t))
	return NewAPIKeyService(repo), repo
}

func TestGenerate_RawKeyResolvesToPrincipal(t *testing.T) {
	svc, _ := newTestAPIKeyService(t)
	userID := uuid.New()

	key, raw, err := svc.Generate(context.Background(), userID, "ci", []string{apikey.ScopeRead, apikey.ScopeWrite})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(raw, "wv_") {
		t.Fatalf("raw key missing prefix: %q", raw)
	}
	if key.KeyHash == raw {
		t.Fatalf("raw key must not be stored verbatim")
	}

	p, err := svc.Resolve(context.Background(), raw)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.UserID != userID {
		t.Fatalf("principal user mismatch")
	}
	if !p.APIKeyID.Valid || p.APIKeyID.UUID != key.ID {
		t.Fatalf("principal missing key id")
	}
	if !HasScope(p, apikey.ScopeRead) || !HasScope(p, apikey.ScopeWrite) {
		t.Fatalf("granted scopes not carried")
	}
	if HasScope(p, apikey.ScopeDelete) {
		t.Fatalf("ungranted scope passed")
	}
}

func TestResolve_UnknownOrMalformedKey(t *testing.T) {
	svc, _ := newTestAPIKeyService(t)

	for _, raw := range []string{"", "not-prefixed", "wv_0000000000"} {
		if _, err := svc.Resolve(context.Background(), raw); !errors.Is(err, wave_errors.ErrUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", raw, err)
		}
	}
}

func TestResolve_RevokedKey(t *testing.T) {
	svc, _ := newTestAPIKeyService(t)
	userID := uuid.New()

	key, raw, err := svc.Generate(context.Background(), userID, "ci", []string{apikey.ScopeRead})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// a foreign user cannot revoke it
	if err := svc.Revoke(context.Background(), uuid.New(), key.ID); !errors.Is(err, wave_errors.ErrNotFound) {
		t.Fatalf("expected not found for foreign revoke, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), raw); err != nil {
		t.Fatalf("key should still resolve: %v", err)
	}

	if err := svc.Revoke(context.Background(), userID, key.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), raw); !errors.Is(err, wave_errors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after revoke, got %v", err)
	}
}

func TestHasScope_SessionPrincipalPassesAll(t *testing.T) {
	p := Principal{UserID: uuid.New()}
	for _, scope := range []string{apikey.ScopeRead, apikey.ScopeWrite, apikey.ScopeDelete} {
		if !HasScope(p, scope) {
			t.Fatalf("session principal should pass scope %q", scope)
		}
	}
}
