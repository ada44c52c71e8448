package handler

import (
	"errors"
	"net/http"

	"wavechat/config"
	"wavechat/internal/middleware"
	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
)

const confirmationMessage = "Check your email to confirm your account"

type AuthHandler struct {
	service *services.AuthService
	cfg     *config.Config
}

func NewAuthHandler(service *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req httpdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	res, err := h.service.Signup(c.Request.Context(), services.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		fail(c, err)
		return
	}

	if !res.HasSession() {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SignupResponse{
			Message: confirmationMessage,
		}))
		return
	}

	h.setAuthCookies(c, res)

	redirectTo := req.RedirectTo
	if redirectTo == "" {
		redirectTo = "/dashboard"
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SignupResponse{
		RedirectTo: redirectTo,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	res, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.setAuthCookies(c, res)

	redirectTo := req.RedirectTo
	if redirectTo == "" {
		redirectTo = "/dashboard"
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SignupResponse{
		RedirectTo: redirectTo,
	}))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, ok := services.SessionIDFromContext(c.Request.Context()); ok {
		if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
			fail(c, err)
			return
		}
	}

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SignupResponse{
		RedirectTo: "/auth/login",
	}))
}

// Callback completes the OAuth flow. Every failure lands back on the
// login page with an error message; the browser never sees a bare error
// status from this endpoint.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		c.Redirect(http.StatusFound, services.LoginRedirect(map[string]string{"error": errMsg}))
		return
	}

	res, err := h.service.ExchangeOAuthCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		var verr *services.ValidationError
		msg := "Authentication failed"
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		c.Redirect(http.StatusFound, services.LoginRedirect(map[string]string{"error": msg}))
		return
	}

	h.setAuthCookies(c, res)

	redirectTo := c.Query("redirectTo")
	if redirectTo == "" {
		redirectTo = "/dashboard"
	}
	c.Redirect(http.StatusFound, redirectTo)
}

// ResetPassword updates the password for the session established by the
// reset link. Known failures return to the login page with the message;
// only unexpected ones surface as JSON errors.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.Redirect(http.StatusFound, services.LoginRedirect(map[string]string{
			"error": "Please log in to continue",
		}))
		return
	}

	var req httpdto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	err := h.service.UpdatePassword(c.Request.Context(), userID, services.ResetPasswordInput{
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.Redirect(http.StatusFound, services.LoginRedirect(map[string]string{"error": verr.Message}))
			return
		}
		fail(c, err)
		return
	}

	h.clearAuthCookies(c)
	c.Redirect(http.StatusFound, services.LoginRedirect(map[string]string{
		"message": "Password updated successfully",
	}))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req httpdto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(middleware.RefreshTokenCookie)
	}

	res, err := h.service.Refresh(c.Request.Context(), req.SessionID, refreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	h.setAuthCookies(c, res)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(res))
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, res services.AuthResponse) {
	h.setCookie(c, middleware.AccessTokenCookie, res.AccessToken, middleware.AccessTokenMaxAge)
	h.setCookie(c, middleware.RefreshTokenCookie, res.RefreshToken, middleware.RefreshTokenMaxAge)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -1)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   maxAge,
		Secure:   h.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
