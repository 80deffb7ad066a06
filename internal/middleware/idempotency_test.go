package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/repository"
)

type stubIdempotencyRepo struct {
	get func(ctx context.Context, key string, notBefore time.Time) (*repository.StoredResponse, error)
	put func(ctx context.Context, key, requestHash string, statusCode int, body []byte) error
}

func (s *stubIdempotencyRepo) Get(ctx context.Context, key string, notBefore time.Time) (*repository.StoredResponse, error) {
	if s.get != nil {
		return s.get(ctx, key, notBefore)
	}
	return nil, repository.ErrKeyNotFound
}

func (s *stubIdempotencyRepo) Put(ctx context.Context, key, requestHash string, statusCode int, body []byte) error {
	if s.put != nil {
		return s.put(ctx, key, requestHash, statusCode, body)
	}
	return nil
}

func (s *stubIdempotencyRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func postContext(e *echo.Echo, body, key string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/register/company", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/register/company")
	return c, rec
}

func TestIdempotencyStoresFirstResponse(t *testing.T) {
	e := echo.New()

	var storedKey, storedHash string
	var storedStatus int
	var storedBody []byte
	repo := &stubIdempotencyRepo{
		put: func(ctx context.Context, key, requestHash string, statusCode int, body []byte) error {
			storedKey, storedHash, storedStatus, storedBody = key, requestHash, statusCode, body
			return nil
		},
	}

	c, rec := postContext(e, `{"email":"a@example.com"}`, "key-1")
	err := Idempotency(repo, time.Minute)(func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]bool{"success": true})
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if storedKey != "key-1" || storedHash == "" || storedStatus != http.StatusCreated {
		t.Fatalf("response not stored: key=%q hash=%q status=%d", storedKey, storedHash, storedStatus)
	}
	if !strings.Contains(string(storedBody), `"success":true`) {
		t.Fatalf("unexpected stored body %q", storedBody)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	e := echo.New()
	body := `{"email":"a@example.com"}`
	hash := requestHash(http.MethodPost, "/api/register/company", []byte(body))

	repo := &stubIdempotencyRepo{
		get: func(ctx context.Context, key string, notBefore time.Time) (*repository.StoredResponse, error) {
			return &repository.StoredResponse{RequestHash: hash, StatusCode: http.StatusCreated, Body: []byte(`{"success":true}`)}, nil
		},
	}

	called := false
	c, rec := postContext(e, body, "key-1")
	err := Idempotency(repo, time.Minute)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusInternalServerError)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if called {
		t.Fatal("replayed request must not reach the handler")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected stored status, got %d", rec.Code)
	}
	if rec.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatal("expected replay marker header")
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("expected stored body, got %q", rec.Body.String())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentPayload(t *testing.T) {
	e := echo.New()
	repo := &stubIdempotencyRepo{
		get: func(ctx context.Context, key string, notBefore time.Time) (*repository.StoredResponse, error) {
			return &repository.StoredResponse{RequestHash: "other-hash", StatusCode: http.StatusCreated, Body: []byte(`{}`)}, nil
		},
	}

	c, rec := postContext(e, `{"email":"b@example.com"}`, "key-1")
	_ = Idempotency(repo, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	e := echo.New()
	repo := &stubIdempotencyRepo{
		get: func(ctx context.Context, key string, notBefore time.Time) (*repository.StoredResponse, error) {
			t.Fatal("no lookup expected without a key")
			return nil, nil
		},
	}

	c, rec := postContext(e, `{}`, "")
	err := Idempotency(repo, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestIdempotencyHandlerStillSeesBody(t *testing.T) {
	e := echo.New()
	repo := &stubIdempotencyRepo{}

	c, _ := postContext(e, `{"email":"a@example.com"}`, "key-2")
	err := Idempotency(repo, time.Minute)(func(c echo.Context) error {
		var payload struct {
			Email string `json:"email"`
		}
		if err := c.Bind(&payload); err != nil {
			t.Fatalf("bind: %v", err)
		}
		if payload.Email != "a@example.com" {
			t.Fatalf("handler got truncated body: %+v", payload)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
