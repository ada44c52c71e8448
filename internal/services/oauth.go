package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	wave_errors "wavechat/pkg/errors"
)

// OAuthIdentity is what the provider returns for a valid authorization code.
type OAuthIdentity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CodeExchanger trades an OAuth authorization code for an identity.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (OAuthIdentity, error)
}

// HTTPCodeExchanger posts the code to the provider's token endpoint.
type HTTPCodeExchanger struct {
	TokenURL    string
	RedirectURL string
	Client      *http.Client
}

func NewHTTPCodeExchanger(tokenURL, redirectURL string) *HTTPCodeExchanger {
	return &HTTPCodeExchanger{
		TokenURL:    tokenURL,
		RedirectURL: redirectURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (e *HTTPCodeExchanger) ExchangeCode(ctx context.Context, code string) (OAuthIdentity, error) {
	if e.TokenURL == "" {
		return OAuthIdentity{}, wave_errors.ErrServiceUnavailable
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", e.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return OAuthIdentity{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.Client.Do(req)
	if err != nil {
		return OAuthIdentity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return OAuthIdentity{}, fmt.Errorf("token endpoint returned %d: %w", resp.StatusCode, wave_errors.ErrUnauthorized)
	}

	var identity OAuthIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return OAuthIdentity{}, err
	}
	if identity.Email == "" {
		return OAuthIdentity{}, wave_errors.ErrUnauthorized
	}

	return identity, nil
}
