package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/dto"
	"github.com/localabilities/portal-api/internal/identity"
	"github.com/localabilities/portal-api/internal/middleware"
)

// AuthHandler exposes session endpoints backed by the identity provider.
type AuthHandler struct {
	identity *identity.Client
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(client *identity.Client) *AuthHandler {
	return &AuthHandler{identity: client}
}

// Provider messages worth translating for the login form. Anything else is
// shown as a generic failure.
var loginErrorMessages = map[string]string{
	"Invalid login credentials": "メールアドレスまたはパスワードが正しくありません",
	"Email not confirmed":       "メールアドレスの確認が完了していません",
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "メールアドレスとパスワードを入力してください")
	}

	session, err := h.identity.SignInWithPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var providerErr *identity.Error
		if errors.As(err, &providerErr) {
			if msg, ok := loginErrorMessages[providerErr.Message]; ok {
				return Error(c, http.StatusUnauthorized, msg)
			}
		}
		return Error(c, http.StatusUnauthorized, "ログインに失敗しました")
	}

	setSessionCookies(c, session)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.AccessTokenCookie); err == nil && cookie.Value != "" {
		// Best effort: the cookies are cleared regardless.
		_ = h.identity.SignOut(c.Request().Context(), cookie.Value)
	}

	clearSessionCookies(c)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}
	if strings.TrimSpace(req.Email) == "" {
		return Error(c, http.StatusBadRequest, "emailは必須です")
	}

	if err := h.identity.ResetPasswordForEmail(c.Request().Context(), req.Email, req.RedirectTo); err != nil {
		return Error(c, http.StatusBadGateway, "パスワードリセットメールの送信に失敗しました")
	}

	// The response never reveals whether the address exists.
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// UpdatePassword handles POST /api/auth/update-password for a signed-in user.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	cookie, err := c.Cookie(middleware.AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return Error(c, http.StatusUnauthorized, "認証が必要です")
	}

	var req dto.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "不正なリクエストです")
	}
	if len(req.Password) < 8 {
		return Error(c, http.StatusBadRequest, "パスワードは8文字以上で入力してください")
	}

	if err := h.identity.UpdateUserPassword(c.Request().Context(), cookie.Value, req.Password); err != nil {
		return ServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Callback handles GET /auth/callback, the landing point of confirmation and
// recovery links. Links carry either a one-time token hash or a PKCE code;
// both end in a session cookie and a redirect to the requested page.
func (h *AuthHandler) Callback(c echo.Context) error {
	next := c.QueryParam("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}

	if code := c.QueryParam("code"); code != "" {
		session, err := h.identity.ExchangeCodeForSession(c.Request().Context(), code)
		if err != nil {
			return c.Redirect(http.StatusFound, "/auth-error?reason="+url.QueryEscape(err.Error()))
		}
		setSessionCookies(c, session)
		return c.Redirect(http.StatusFound, next)
	}

	tokenHash := c.QueryParam("token_hash")
	otpType := c.QueryParam("type")
	if tokenHash == "" || otpType == "" {
		return c.Redirect(http.StatusFound, "/auth-error")
	}

	session, err := h.identity.VerifyOTP(c.Request().Context(), tokenHash, otpType)
	if err != nil {
		return c.Redirect(http.StatusFound, "/auth-error?reason="+url.QueryEscape(err.Error()))
	}

	setSessionCookies(c, session)
	return c.Redirect(http.StatusFound, next)
}

func setSessionCookies(c echo.Context, session *identity.Session) {
	if session == nil {
		return
	}
	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
