package services

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the common projection both auth modes resolve to: a
// session carries the user's full capability set, an API key only its
// granted scopes.
type Principal struct {
	UserID   uuid.UUID
	APIKeyID uuid.NullUUID
	Scopes   []string
}

// FromAPIKey reports whether the principal was resolved from a bearer credential.
func (p Principal) FromAPIKey() bool {
	return p.APIKeyID.Valid
}

type ctxKey string

var (
	userIDKey    ctxKey = "user_id"
	sessionIDKey ctxKey = "session_id"
	principalKey ctxKey = "principal"
)

func WithUserSession(ctx context.Context, userID, sessionID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, userIDKey, p.UserID)
	return context.WithValue(ctx, principalKey, p)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(sessionIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	value := ctx.Value(principalKey)
	if value == nil {
		return Principal{}, false
	}
	p, ok := value.(Principal)
	return p, ok
}
