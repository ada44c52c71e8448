package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"wavechat/config"
	"wavechat/internal/domain/user"
	"wavechat/internal/repository"
	wave_errors "wavechat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo    repository.UserRepository
	exchanger   CodeExchanger
	jwtSecret   []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	autoConfirm bool
}

func NewAuthService(userRepo repository.UserRepository, exchanger CodeExchanger, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		exchanger:   exchanger,
		jwtSecret:   []byte(cfg.JWTSecret),
		accessTTL:   time.Duration(cfg.AccessTTLDays) * 24 * time.Hour,
		refreshTTL:  time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		autoConfirm: cfg.SignupAutoConfirm,
	}
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Password        string
	ConfirmPassword string
}

// AuthResponse carries the issued tokens; RefreshToken is empty when
// signup completed without an immediate session (email confirmation pending).
type AuthResponse struct {
	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int64    `json:"expires_in,omitempty"`
	SessionID    string   `json:"session_id,omitempty"`
	User         UserInfo `json:"user"`
}

// HasSession reports whether signup produced an immediate session.
func (r AuthResponse) HasSession() bool {
	return r.AccessToken != ""
}

type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

type AccessClaims struct {
	UserID    string `json:"sub"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Validation messages surfaced verbatim in signup/reset form state.
const (
	MsgEmailRequired    = "Email is required"
	MsgPasswordRequired = "Password is required"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgNoAuthCode       = "No authorization code received"
)

// ValidationError is an invalid-input failure carrying the form message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return wave_errors.ErrInvalidInput }

// ValidateSignup checks fields in a fixed order: email present, password
// present, passwords match, password length.
func ValidateSignup(in SignupInput) error {
	if in.Email == "" {
		return &ValidationError{Message: MsgEmailRequired}
	}
	if in.Password == "" {
		return &ValidationError{Message: MsgPasswordRequired}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Message: MsgPasswordMismatch}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	return nil
}

func ValidateResetPassword(in ResetPasswordInput) error {
	if in.Password == "" {
		return &ValidationError{Message: MsgPasswordRequired}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Message: MsgPasswordMismatch}
	}
	return nil
}

// Signup registers a user. When the address is pre-confirmed (trusted
// domains, tests) a session is issued immediately; otherwise the caller
// gets a response without tokens and must prompt for email confirmation.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (AuthResponse, error) {
	if err := ValidateSignup(in); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return AuthResponse{}, wave_errors.ErrAlreadyExists
	} else if !errors.Is(err, wave_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	newUser := &user.User{
		ID:             uuid.New(),
		Email:          strings.ToLower(in.Email),
		PasswordHash:   hash,
		EmailConfirmed: s.autoConfirm,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}

	if !newUser.EmailConfirmed {
		return AuthResponse{User: toUserInfo(*newUser)}, nil
	}

	return s.issueSession(ctx, *newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, wave_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, wave_errors.ErrNotFound) {
			return AuthResponse{}, wave_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, wave_errors.ErrUnauthorized
	}

	return s.issueSession(ctx, u)
}

// ExchangeOAuthCode trades an authorization code for a session. The user is
// created on first sign-in; OAuth identities arrive with a confirmed email.
func (s *AuthService) ExchangeOAuthCode(ctx context.Context, code string) (AuthResponse, error) {
	if code == "" {
		return AuthResponse{}, &ValidationError{Message: MsgNoAuthCode}
	}
	if s.exchanger == nil {
		return AuthResponse{}, wave_errors.ErrServiceUnavailable
	}

	identity, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return AuthResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(identity.Email))
	if errors.Is(err, wave_errors.ErrNotFound) {
		u = user.User{
			ID:             uuid.New(),
			Email:          strings.ToLower(identity.Email),
			PasswordHash:   "",
			EmailConfirmed: true,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if identity.Name != "" {
			u.DisplayName = sql.NullString{String: identity.Name, Valid: true}
		}
		if createErr := s.userRepo.Create(ctx, &u); createErr != nil {
			return AuthResponse{}, createErr
		}
	} else if err != nil {
		return AuthResponse{}, err
	}

	return s.issueSession(ctx, u)
}

func (s *AuthService) Refresh(ctx context.Context, sessionID, refreshToken string) (AuthResponse, error) {
	if sessionID == "" || refreshToken == "" {
		return AuthResponse{}, wave_errors.ErrInvalidInput
	}

	parsedID, err := uuid.Parse(sessionID)
	if err != nil {
		return AuthResponse{}, wave_errors.ErrInvalidInput
	}

	session, err := s.userRepo.GetSessionByID(ctx, parsedID)
	if err != nil {
		return AuthResponse{}, err
	}

	if session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return AuthResponse{}, wave_errors.ErrUnauthorized
	}

	if !compareTokenHash(session.RefreshTokenHash, refreshToken) {
		_ = s.userRepo.RevokeSession(ctx, session.ID)
		return AuthResponse{}, wave_errors.ErrUnauthorized
	}

	newRefresh, err := generateToken(32)
	if err != nil {
		return AuthResponse{}, err
	}

	session.RefreshTokenHash = hashToken(newRefresh)
	session.ExpiresAt = time.Now().Add(s.refreshTTL)
	if err := s.userRepo.UpdateSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return AuthResponse{}, err
	}

	accessToken, expiresIn, err := s.newAccessToken(u.ID, session.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    expiresIn,
		SessionID:    session.ID.String(),
		User:         toUserInfo(u),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.userRepo.RevokeSession(ctx, sessionID)
}

// UpdatePassword is the reset-flow update; the session established by the
// reset link identifies the user. All other sessions are revoked.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, in ResetPasswordInput) error {
	if err := ValidateResetPassword(in); err != nil {
		return err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	return s.userRepo.RevokeAllUserSessions(ctx, u.ID)
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, wave_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, wave_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, wave_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, wave_errors.ErrUnauthorized
	}

	return *claims, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, sessionID, userID uuid.UUID) (user.Session, error) {
	session, err := s.userRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return user.Session{}, err
	}
	if session.UserID != userID || session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return user.Session{}, wave_errors.ErrUnauthorized
	}
	return session, nil
}

func (s *AuthService) issueSession(ctx context.Context, u user.User) (AuthResponse, error) {
	refreshToken, err := generateToken(32)
	if err != nil {
		return AuthResponse{}, err
	}

	createdAt := time.Now()
	session := &user.Session{
		ID:               uuid.New(),
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        createdAt.Add(s.refreshTTL),
		CreatedAt:        createdAt,
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	accessToken, expiresIn, err := s.newAccessToken(u.ID, session.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		SessionID:    session.ID.String(),
		User:         toUserInfo(u),
	}, nil
}

func (s *AuthService) newAccessToken(userID, sessionID uuid.UUID) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func compareTokenHash(hash, token string) bool {
	computed := hashToken(token)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(computed)) == 1
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toUserInfo(u user.User) UserInfo {
	info := UserInfo{
		ID:    u.ID.String(),
		Email: u.Email,
	}
	if u.DisplayName.Valid {
		info.DisplayName = u.DisplayName.String
	}
	return info
}

// LoginRedirect builds the login-page redirect the auth flows use on failure.
func LoginRedirect(params map[string]string) string {
	if len(params) == 0 {
		return "/auth/login"
	}
	values := url.Values{}
	for key, v := range params {
		values.Set(key, v)
	}
	return "/auth/login?" + values.Encode()
}
