package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func mintToken(t *testing.T, secret string, expiry time.Duration, role string) string {
	t.Helper()
	claims := sessionClaims{
		Email:        "user@example.com",
		UserMetadata: map[string]any{"role": role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newSessionContext(e *echo.Echo, target, cookieValue string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionParser(t *testing.T) {
	e := echo.New()
	parser := NewSessionParser(testSecret)

	tests := map[string]struct {
		cookie string
		valid  bool
	}{
		"missing cookie": {valid: false},
		"garbage token":  {cookie: "not-a-jwt", valid: false},
		"wrong secret":   {cookie: mintToken(t, "another-secret", time.Hour, "company"), valid: false},
		"expired token":  {cookie: mintToken(t, testSecret, -time.Hour, "company"), valid: false},
		"valid token":    {cookie: mintToken(t, testSecret, time.Hour, "company"), valid: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := newSessionContext(e, "/", tt.cookie)
			session, ok := parser.Parse(c)
			if ok != tt.valid {
				t.Fatalf("expected valid=%v, got %v", tt.valid, ok)
			}
			if tt.valid {
				if session.Email != "user@example.com" || session.UserID != "user-1" || session.Role != "company" {
					t.Fatalf("unexpected session: %+v", session)
				}
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	e := echo.New()
	parser := NewSessionParser(testSecret)
	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return Attach(parser)(RequireSession()(next))
	}

	t.Run("anonymous gets 401", func(t *testing.T) {
		c, rec := newSessionContext(e, "/api/company", "")
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("signed in passes", func(t *testing.T) {
		c, rec := newSessionContext(e, "/api/company", mintToken(t, testSecret, time.Hour, "company"))
		executed := false
		err := mw(func(c echo.Context) error {
			executed = true
			email, _ := SessionEmail(c)
			if email != "user@example.com" {
				t.Fatalf("expected session email in context, got %q", email)
			}
			return c.NoContent(http.StatusOK)
		})(c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !executed || rec.Code != http.StatusOK {
			t.Fatalf("expected handler to run, code %d", rec.Code)
		}
	})
}

func TestGateDashboardRedirectsAnonymous(t *testing.T) {
	e := echo.New()
	parser := NewSessionParser(testSecret)
	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return Attach(parser)(GateDashboard()(next))
	}

	c, rec := newSessionContext(e, "/dashboard/company/edit", "")
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirect=%2Fdashboard%2Fcompany%2Fedit" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestGateDashboardPassesSignedIn(t *testing.T) {
	e := echo.New()
	parser := NewSessionParser(testSecret)
	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return Attach(parser)(GateDashboard()(next))
	}

	c, rec := newSessionContext(e, "/dashboard/company", mintToken(t, testSecret, time.Hour, "company"))
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRedirectAuthenticated(t *testing.T) {
	e := echo.New()
	parser := NewSessionParser(testSecret)
	mw := func(next echo.HandlerFunc) echo.HandlerFunc {
		return Attach(parser)(RedirectAuthenticated()(next))
	}

	t.Run("company session goes to company dashboard", func(t *testing.T) {
		c, rec := newSessionContext(e, "/login", mintToken(t, testSecret, time.Hour, "company"))
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard/company" {
			t.Fatalf("expected redirect to company dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("facility session goes to facility dashboard", func(t *testing.T) {
		c, rec := newSessionContext(e, "/login", mintToken(t, testSecret, time.Hour, "facility"))
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if rec.Header().Get("Location") != "/dashboard/facility" {
			t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
		}
	})

	t.Run("anonymous stays", func(t *testing.T) {
		c, rec := newSessionContext(e, "/login", "")
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	})
}
