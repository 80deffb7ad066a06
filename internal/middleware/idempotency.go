package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/localabilities/portal-api/internal/repository"
)

// HeaderIdempotencyKey is the client-chosen deduplication key for unsafe
// requests. Replays of a completed request get the stored response back.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotentBody = 1 << 20

// responseRecorder captures the response so it can be stored for replay.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// Idempotency deduplicates POST requests that carry an Idempotency-Key
// header. A repeated key with the same payload replays the first response; a
// repeated key with a different payload is a conflict.
func Idempotency(repo repository.IdempotencyRepository, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return next(c)
			}
			key := c.Request().Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return next(c)
			}

			body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxIdempotentBody))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの読み込みに失敗しました"})
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(c.Request().Method, c.Path(), body)
			notBefore := time.Now().Add(-ttl)

			stored, err := repo.Get(c.Request().Context(), key, notBefore)
			if err == nil {
				if stored.RequestHash != hash {
					return c.JSON(http.StatusConflict, map[string]string{"error": "同じキーで異なるリクエストが送信されました"})
				}
				c.Response().Header().Set("Idempotency-Replayed", "true")
				return c.JSONBlob(stored.StatusCode, stored.Body)
			}
			if !errors.Is(err, repository.ErrKeyNotFound) {
				// Storage trouble must not block the request itself.
				return next(c)
			}

			recorder := &responseRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = recorder

			if err := next(c); err != nil {
				return err
			}

			// Only settled outcomes are worth replaying.
			if recorder.status >= 200 && recorder.status < 500 {
				_ = repo.Put(c.Request().Context(), key, hash, recorder.status, recorder.body.Bytes())
			}
			return nil
		}
	}
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	io.WriteString(h, method)
	io.WriteString(h, "\n")
	io.WriteString(h, path)
	io.WriteString(h, "\n")
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
